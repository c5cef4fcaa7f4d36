// Package alphabet maps the machine's 53 symbols to dense indices and back.
package alphabet

import (
	"errors"
	"fmt"
)

// Symbols lists the recognized symbols in index order.
const Symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ "

// Size is the number of symbols; every rotor, plugboard and reflector works over [0, Size).
const Size = len(Symbols)

var ErrUnsupportedCharacter = errors.New("alphabet: unsupported character")

var (
	symbols [Size]rune
	indices = make(map[rune]int, Size)
)

func init() {
	for i, r := range Symbols {
		symbols[i] = r
		indices[r] = i
	}
}

// UnsupportedCharacterError reports the first rune of a message that is not in the alphabet.
type UnsupportedCharacterError struct {
	Symbol rune
	Offset int // rune offset within the scanned text
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("%s %q at offset %d", ErrUnsupportedCharacter.Error(), e.Symbol, e.Offset)
}

func (e *UnsupportedCharacterError) Unwrap() error { return ErrUnsupportedCharacter }

// IndexOf returns the index of r.
func IndexOf(r rune) (int, error) {
	i, ok := indices[r]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCharacter, r)
	}
	return i, nil
}

// Contains reports whether r is one of the recognized symbols.
func Contains(r rune) bool {
	_, ok := indices[r]
	return ok
}

// SymbolAt returns the symbol for index i. It panics if i is outside [0, Size).
func SymbolAt(i int) rune {
	if i < 0 || i >= Size {
		panic(fmt.Sprintf("alphabet: index %d out of range", i))
	}
	return symbols[i]
}

// Validate checks every rune of text before anything is encoded.
func Validate(text string) error {
	offset := 0
	for _, r := range text {
		if !Contains(r) {
			return &UnsupportedCharacterError{Symbol: r, Offset: offset}
		}
		offset++
	}
	return nil
}
