package rotor

import (
	"github.com/TheusHen/Enigma/enigma/alphabet"
)

// Notch positions by rotor role. They never change.
const (
	NotchFast   = 16
	NotchMedium = 4
	NotchSlow   = 21
)

const size = alphabet.Size

// Rotor is one wheel of the machine: a fixed wiring, a fixed notch and a rotation offset.
// A Rotor is owned by a single machine and is not safe for concurrent use.
type Rotor struct {
	wiring   Wiring
	inverse  Wiring
	notch    int
	position int
}

// New creates a rotor at the given start position. The wiring must already be validated.
func New(w Wiring, notch, position int) *Rotor {
	return &Rotor{
		wiring:   w,
		inverse:  w.Inverse(),
		notch:    mod(notch),
		position: mod(position),
	}
}

func mod(i int) int {
	i %= size
	if i < 0 {
		i += size
	}
	return i
}

// Forward maps a signal travelling from the entry plate towards the reflector.
func (r *Rotor) Forward(i int) int {
	out := int(r.wiring[(i+r.position)%size])
	return (out - r.position + size) % size
}

// Backward maps a signal returning from the reflector.
func (r *Rotor) Backward(i int) int {
	out := int(r.inverse[(i+r.position)%size])
	return (out - r.position + size) % size
}

// AtNotch reports whether the rotor currently sits on its notch.
func (r *Rotor) AtNotch() bool { return r.position == r.notch }

// Step advances the rotor by one position.
func (r *Rotor) Step() { r.position = (r.position + 1) % size }

func (r *Rotor) Position() int { return r.position }

func (r *Rotor) Notch() int { return r.notch }

func (r *Rotor) Wiring() Wiring { return r.wiring }

// Clone returns an independent copy with the same state.
func (r *Rotor) Clone() *Rotor {
	c := *r
	return &c
}
