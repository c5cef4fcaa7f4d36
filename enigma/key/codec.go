package key

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/TheusHen/Enigma/enigma/alphabet"
	"github.com/TheusHen/Enigma/enigma/random"
	"github.com/TheusHen/Enigma/enigma/rotor"
)

var ErrCorruptKeyFile = errors.New("key: corrupt key file")

// Roles names the rotor slots in file order.
var Roles = [3]string{"fast", "medium", "slow"}

// EncodedSize is the size of an encoded daily key: a 1-byte array header plus three
// 53-byte bin8 values with 2-byte headers.
const EncodedSize = 1 + 3*(2+alphabet.Size)

// WiringError reports which rotor of a key file failed validation.
type WiringError struct {
	Role string
	Err  error // rotor.ErrNotAPermutation or rotor.ErrFixedPointFound
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("key: %s rotor: %v", e.Role, e.Err)
}

func (e *WiringError) Unwrap() error { return e.Err }

// payload is the persisted form: a msgpack array of three bin values.
type payload struct {
	_msgpack struct{} `msgpack:",as_array"`

	Fast   []byte
	Medium []byte
	Slow   []byte
}

// Encode serializes three wirings in fast, medium, slow order.
func Encode(wirings [3]rotor.Wiring) ([]byte, error) {
	p := payload{
		Fast:   wirings[0].Bytes(),
		Medium: wirings[1].Bytes(),
		Slow:   wirings[2].Bytes(),
	}
	return msgpack.Marshal(&p)
}

// Decode parses and validates an encoded daily key. Anything other than the exact
// canonical encoding is ErrCorruptKeyFile.
func Decode(data []byte) ([3]rotor.Wiring, error) {
	var out [3]rotor.Wiring
	if len(data) != EncodedSize {
		return out, fmt.Errorf("%w: %d bytes, want %d", ErrCorruptKeyFile, len(data), EncodedSize)
	}
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return out, fmt.Errorf("%w: %v", ErrCorruptKeyFile, err)
	}
	raw := [3][]byte{p.Fast, p.Medium, p.Slow}
	for role, b := range raw {
		if len(b) != alphabet.Size {
			return out, fmt.Errorf("%w: %s rotor has %d entries", ErrCorruptKeyFile, Roles[role], len(b))
		}
	}
	canonical, err := msgpack.Marshal(&p)
	if err != nil || !bytes.Equal(canonical, data) {
		return out, fmt.Errorf("%w: non-canonical encoding", ErrCorruptKeyFile)
	}
	for role, b := range raw {
		w, err := rotor.ParseWiring(b)
		if err != nil {
			return out, &WiringError{Role: Roles[role], Err: err}
		}
		out[role] = w
	}
	return out, nil
}

// GenerateDailyKey draws three independent derangements and encodes them.
func GenerateDailyKey(src random.Source) ([]byte, error) {
	var ws [3]rotor.Wiring
	for role := range ws {
		ws[role] = rotor.GenerateWiring(src)
		if err := rotor.ValidateWiring(ws[role][:]); err != nil {
			return nil, &WiringError{Role: Roles[role], Err: err}
		}
	}
	return Encode(ws)
}

// LoadDailyKey decodes and validates a daily key file.
func LoadDailyKey(data []byte) ([3]rotor.Wiring, error) {
	return Decode(data)
}
