package machine

import (
	"errors"
	"fmt"

	"github.com/TheusHen/Enigma/enigma/alphabet"
)

var ErrInvalidStartPositions = errors.New("machine: invalid start positions")

// Positions are rotor offsets in role order: fast, medium, slow.
type Positions [3]int

// ParsePositions reads exactly three alphabet symbols, one per rotor role.
func ParsePositions(s string) (Positions, error) {
	var p Positions
	runes := []rune(s)
	if len(runes) != len(p) {
		return p, fmt.Errorf("%w: want %d symbols, got %d", ErrInvalidStartPositions, len(p), len(runes))
	}
	for role, r := range runes {
		idx, err := alphabet.IndexOf(r)
		if err != nil {
			return p, fmt.Errorf("%w: %w", ErrInvalidStartPositions, err)
		}
		p[role] = idx
	}
	return p, nil
}

// Validate reports whether every offset lies in the alphabet.
func (p Positions) Validate() error {
	for role, idx := range p {
		if idx < 0 || idx >= alphabet.Size {
			return fmt.Errorf("%w: %s rotor offset %d out of range", ErrInvalidStartPositions, RoleName(role), idx)
		}
	}
	return nil
}

// String renders the positions as the three symbols ParsePositions accepts.
// Out-of-range offsets render as '?'.
func (p Positions) String() string {
	out := make([]rune, len(p))
	for role, idx := range p {
		if idx < 0 || idx >= alphabet.Size {
			out[role] = '?'
			continue
		}
		out[role] = alphabet.SymbolAt(idx)
	}
	return string(out)
}
