// Package reflector implements the involutive permutation that turns the signal back
// through the rotors.
//
// The alphabet has 53 symbols. An involution over an odd set always fixes at least one
// point, so every reflector here pairs 52 symbols into 26 transpositions and leaves
// exactly one symbol wired to itself. New rejects any table with more than one.
package reflector

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/TheusHen/Enigma/enigma/alphabet"
	"github.com/TheusHen/Enigma/enigma/random"
)

const size = alphabet.Size

var (
	ErrNotInvolution      = errors.New("reflector: table is not an involution")
	ErrTooManyFixedPoints = errors.New("reflector: more than one fixed point")
)

const deriveInfo = "enigma-reflector-v1"

// Reflector is immutable and safe to share between machines.
type Reflector struct {
	table [size]byte
	fixed int
}

// Generate pairs the symbols of a random permutation two by two; the last one left over
// becomes the single fixed point.
func Generate(src random.Source) *Reflector {
	p := src.Perm(size)
	r := &Reflector{}
	for k := 0; k+1 < size; k += 2 {
		a, b := p[k], p[k+1]
		r.table[a] = byte(b)
		r.table[b] = byte(a)
	}
	r.fixed = p[size-1]
	r.table[r.fixed] = byte(r.fixed)
	return r
}

// Standard returns the fixed reference reflector: 2k <-> 2k+1 for every k, with the
// space (index 52) as the fixed point.
func Standard() *Reflector {
	r := &Reflector{fixed: size - 1}
	for k := 0; k+1 < size; k += 2 {
		r.table[k] = byte(k + 1)
		r.table[k+1] = byte(k)
	}
	r.table[size-1] = byte(size - 1)
	return r
}

// Derive builds the reflector that belongs to an encoded daily key. The key bytes go
// through HKDF-SHA256 and the output seeds Generate, so every holder of the same key
// file derives the same reflector without storing it.
func Derive(dailyKey []byte) *Reflector {
	seed := make([]byte, 32)
	kdf := hkdf.New(sha256.New, dailyKey, nil, []byte(deriveInfo))
	if _, err := io.ReadFull(kdf, seed); err != nil {
		// HKDF-SHA256 can produce far more than 32 bytes
		panic(err)
	}
	return Generate(random.Seeded(seed))
}

// New validates an explicit table.
func New(table []byte) (*Reflector, error) {
	if len(table) != size {
		return nil, fmt.Errorf("%w: %d entries, want %d", ErrNotInvolution, len(table), size)
	}
	r := &Reflector{fixed: -1}
	for i, v := range table {
		if int(v) >= size {
			return nil, fmt.Errorf("%w: entry %d out of range (%d)", ErrNotInvolution, i, v)
		}
		if int(table[v]) != i {
			return nil, fmt.Errorf("%w: %d -> %d -> %d", ErrNotInvolution, i, v, table[v])
		}
		if int(v) == i {
			if r.fixed >= 0 {
				return nil, fmt.Errorf("%w: %d and %d", ErrTooManyFixedPoints, r.fixed, i)
			}
			r.fixed = i
		}
	}
	copy(r.table[:], table)
	return r, nil
}

// Reflect maps i to its partner.
func (r *Reflector) Reflect(i int) int { return int(r.table[i]) }

// FixedPoint returns the one index the reflector maps to itself.
func (r *Reflector) FixedPoint() int { return r.fixed }

// Table returns a copy of the mapping.
func (r *Reflector) Table() []byte {
	out := make([]byte, size)
	copy(out, r.table[:])
	return out
}

func (r *Reflector) MarshalBinary() ([]byte, error) { return r.Table(), nil }

func (r *Reflector) UnmarshalBinary(data []byte) error {
	parsed, err := New(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}
