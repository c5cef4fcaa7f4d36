package rotor

import (
	"errors"
	"fmt"

	"github.com/TheusHen/Enigma/enigma/random"
)

var (
	ErrNotAPermutation = errors.New("rotor: wiring is not a permutation")
	ErrFixedPointFound = errors.New("rotor: wiring has a fixed point")
)

// Wiring is the forward permutation of a rotor: contact i is wired to contact Wiring[i].
type Wiring [size]byte

// Inverse returns the wiring used on the return path.
func (w Wiring) Inverse() Wiring {
	var inv Wiring
	for i, v := range w {
		inv[v] = byte(i)
	}
	return inv
}

// Bytes returns a copy of the wiring as a byte slice.
func (w Wiring) Bytes() []byte {
	out := make([]byte, size)
	copy(out, w[:])
	return out
}

// ValidateWiring checks that candidate is a derangement of [0, 53).
func ValidateWiring(candidate []byte) error {
	if len(candidate) != size {
		return fmt.Errorf("%w: %d entries, want %d", ErrNotAPermutation, len(candidate), size)
	}
	var seen [size]bool
	for i, v := range candidate {
		if int(v) >= size {
			return fmt.Errorf("%w: entry %d out of range (%d)", ErrNotAPermutation, i, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: index %d duplicated", ErrNotAPermutation, v)
		}
		seen[v] = true
	}
	for i, v := range candidate {
		if int(v) == i {
			return fmt.Errorf("%w: index %d maps to itself", ErrFixedPointFound, i)
		}
	}
	return nil
}

// ParseWiring validates candidate and copies it into a Wiring.
func ParseWiring(candidate []byte) (Wiring, error) {
	var w Wiring
	if err := ValidateWiring(candidate); err != nil {
		return w, err
	}
	copy(w[:], candidate)
	return w, nil
}

// GenerateWiring draws uniform permutations from src until one is a derangement.
// Roughly one draw in e succeeds, so the loop ends quickly.
func GenerateWiring(src random.Source) Wiring {
	for {
		p := src.Perm(size)
		fixed := false
		for i, v := range p {
			if v == i {
				fixed = true
				break
			}
		}
		if fixed {
			continue
		}
		var w Wiring
		for i, v := range p {
			w[i] = byte(v)
		}
		return w
	}
}
