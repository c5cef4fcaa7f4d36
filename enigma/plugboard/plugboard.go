// Package plugboard implements the static pairwise swap applied before and after the rotors.
package plugboard

import (
	"errors"
	"fmt"

	"github.com/TheusHen/Enigma/enigma/alphabet"
)

// MaxPairs is the number of cables on the board.
const MaxPairs = 13

var (
	ErrTooManyPairs     = errors.New("plugboard: too many pairs")
	ErrSelfMapping      = errors.New("plugboard: pair maps a symbol to itself")
	ErrDuplicateMapping = errors.New("plugboard: symbol appears in more than one pair")
)

// Pair joins two alphabet indices with a cable.
type Pair [2]int

// Plugboard is immutable once built and safe to share between machines.
type Plugboard struct {
	mapping [alphabet.Size]int
	pairs   []Pair
}

// Empty returns a board with no cables.
func Empty() *Plugboard {
	pb, _ := New(nil)
	return pb
}

// New builds a board from pairs. Pairs are unordered and must be disjoint.
func New(pairs []Pair) (*Plugboard, error) {
	if len(pairs) > MaxPairs {
		return nil, fmt.Errorf("%w: %d, max %d", ErrTooManyPairs, len(pairs), MaxPairs)
	}
	pb := &Plugboard{pairs: make([]Pair, 0, len(pairs))}
	for i := range pb.mapping {
		pb.mapping[i] = i
	}
	var used [alphabet.Size]bool
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a < 0 || a >= alphabet.Size || b < 0 || b >= alphabet.Size {
			return nil, fmt.Errorf("%w: pair (%d, %d) outside alphabet", alphabet.ErrUnsupportedCharacter, a, b)
		}
		if a == b {
			return nil, fmt.Errorf("%w: %q", ErrSelfMapping, alphabet.SymbolAt(a))
		}
		for _, x := range p {
			if used[x] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateMapping, alphabet.SymbolAt(x))
			}
			used[x] = true
		}
		pb.mapping[a] = b
		pb.mapping[b] = a
		pb.pairs = append(pb.pairs, p)
	}
	return pb, nil
}

// Swap returns the partner of i, or i itself when no cable is plugged in.
func (pb *Plugboard) Swap(i int) int { return pb.mapping[i] }

// Pairs returns a copy of the configured pairs.
func (pb *Plugboard) Pairs() []Pair {
	out := make([]Pair, len(pb.pairs))
	copy(out, pb.pairs)
	return out
}

// Len returns the number of cables in use.
func (pb *Plugboard) Len() int { return len(pb.pairs) }
