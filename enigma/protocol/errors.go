package protocol

import (
	"errors"

	"github.com/TheusHen/Enigma/enigma/alphabet"
	"github.com/TheusHen/Enigma/enigma/key"
	"github.com/TheusHen/Enigma/enigma/machine"
	"github.com/TheusHen/Enigma/enigma/plugboard"
	"github.com/TheusHen/Enigma/enigma/rotor"
)

// Code identifies an error kind on the wire.
type Code uint16

const (
	CodeInternal Code = iota
	CodeBadRequest
	CodeUnsupportedCharacter
	CodeInvalidStartPositions
	CodeEmptyMessage
	CodeNotAPermutation
	CodeFixedPointFound
	CodeTooManyPairs
	CodeSelfMapping
	CodeDuplicateMapping
	CodeCorruptKeyFile
)

var ErrRemote = errors.New("protocol: remote failure")

// ErrBadRequest is reported for frames the server cannot decode.
var ErrBadRequest = errors.New("protocol: bad request")

var codes = []struct {
	code Code
	err  error
}{
	{CodeBadRequest, ErrBadRequest},
	{CodeInvalidStartPositions, machine.ErrInvalidStartPositions},
	{CodeUnsupportedCharacter, alphabet.ErrUnsupportedCharacter},
	{CodeEmptyMessage, machine.ErrEmptyMessage},
	{CodeNotAPermutation, rotor.ErrNotAPermutation},
	{CodeFixedPointFound, rotor.ErrFixedPointFound},
	{CodeTooManyPairs, plugboard.ErrTooManyPairs},
	{CodeSelfMapping, plugboard.ErrSelfMapping},
	{CodeDuplicateMapping, plugboard.ErrDuplicateMapping},
	{CodeCorruptKeyFile, key.ErrCorruptKeyFile},
}

// ErrorCode maps err to its wire code. The first matching sentinel wins, so an
// invalid position symbol reports CodeInvalidStartPositions.
func ErrorCode(err error) Code {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// NewFailure describes err for the wire.
func NewFailure(err error) Failure {
	return Failure{Code: ErrorCode(err), Message: err.Error()}
}

// RemoteError is an error reported by the other side.
type RemoteError struct {
	Code    Code
	Message string
}

func (e *RemoteError) Error() string { return "remote: " + e.Message }

// Unwrap exposes the local sentinel for Code, or ErrRemote for unknown codes.
func (e *RemoteError) Unwrap() error {
	for _, c := range codes {
		if c.code == e.Code {
			return c.err
		}
	}
	return ErrRemote
}

// Err rebuilds a typed error on the receiving side.
func (f Failure) Err() error {
	return &RemoteError{Code: f.Code, Message: f.Message}
}
