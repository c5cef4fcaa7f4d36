// Package machine composes rotors, a plugboard and a reflector into the cipher engine.
//
// Enciphering is its own inverse: two machines built from the same key material and
// start positions turn plaintext into ciphertext and that ciphertext back into the
// plaintext. A Machine is not safe for concurrent use; give each goroutine its own,
// for example via Clone.
package machine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TheusHen/Enigma/enigma/alphabet"
	"github.com/TheusHen/Enigma/enigma/plugboard"
	"github.com/TheusHen/Enigma/enigma/reflector"
	"github.com/TheusHen/Enigma/enigma/rotor"
)

var (
	ErrEmptyMessage = errors.New("machine: empty message")
	ErrNoReflector  = errors.New("machine: reflector required")
)

// Rotor roles, in signal order from the entry plate.
const (
	Fast = iota
	Medium
	Slow
)

var notches = [3]int{rotor.NotchFast, rotor.NotchMedium, rotor.NotchSlow}

// Config is the key material for one machine.
type Config struct {
	Wirings   [3]rotor.Wiring // fast, medium, slow
	Plugboard *plugboard.Plugboard
	Reflector *reflector.Reflector
	Positions Positions
}

// Machine holds three rotors plus the immutable plugboard and reflector.
// The rotor positions are its only mutable state.
type Machine struct {
	rotors    [3]*rotor.Rotor
	plugboard *plugboard.Plugboard
	reflector *reflector.Reflector
}

// New validates cfg and builds a machine at the configured start positions.
// A nil plugboard means no cables.
func New(cfg Config) (*Machine, error) {
	if cfg.Reflector == nil {
		return nil, ErrNoReflector
	}
	for role, w := range cfg.Wirings {
		if err := rotor.ValidateWiring(w[:]); err != nil {
			return nil, fmt.Errorf("%s rotor: %w", RoleName(role), err)
		}
	}
	if err := cfg.Positions.Validate(); err != nil {
		return nil, err
	}
	pb := cfg.Plugboard
	if pb == nil {
		pb = plugboard.Empty()
	}
	m := &Machine{plugboard: pb, reflector: cfg.Reflector}
	for role := range m.rotors {
		m.rotors[role] = rotor.New(cfg.Wirings[role], notches[role], cfg.Positions[role])
	}
	return m, nil
}

// RoleName names a rotor role for messages.
func RoleName(role int) string {
	switch role {
	case Fast:
		return "fast"
	case Medium:
		return "medium"
	case Slow:
		return "slow"
	default:
		return "unknown"
	}
}

// Step advances the rotors once. Every decision is taken from the notch flags as they
// were before anything moved: the fast rotor always steps, the medium rotor steps when
// the fast rotor or the medium rotor itself was on its notch (the latter is the double
// step), and the slow rotor steps when the medium rotor was on its notch.
func (m *Machine) Step() {
	fastAtNotch := m.rotors[Fast].AtNotch()
	mediumAtNotch := m.rotors[Medium].AtNotch()

	m.rotors[Fast].Step()
	if fastAtNotch || mediumAtNotch {
		m.rotors[Medium].Step()
	}
	if mediumAtNotch {
		m.rotors[Slow].Step()
	}
}

// signal runs one index through plugboard, rotors, reflector and back.
func (m *Machine) signal(idx int) int {
	idx = m.plugboard.Swap(idx)
	idx = m.rotors[Fast].Forward(idx)
	idx = m.rotors[Medium].Forward(idx)
	idx = m.rotors[Slow].Forward(idx)
	idx = m.reflector.Reflect(idx)
	idx = m.rotors[Slow].Backward(idx)
	idx = m.rotors[Medium].Backward(idx)
	idx = m.rotors[Fast].Backward(idx)
	return m.plugboard.Swap(idx)
}

// EncodeRune steps the rotors and enciphers a single symbol. An unsupported symbol is
// rejected before the rotors move.
func (m *Machine) EncodeRune(r rune) (rune, error) {
	idx, err := alphabet.IndexOf(r)
	if err != nil {
		return 0, err
	}
	m.Step()
	return alphabet.SymbolAt(m.signal(idx)), nil
}

// EncodeMessage enciphers (or deciphers) text. Every rune is checked first; if any is
// outside the alphabet nothing is encoded and the rotors do not move.
func (m *Machine) EncodeMessage(text string) (string, error) {
	if text == "" {
		return "", ErrEmptyMessage
	}
	if err := alphabet.Validate(text); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		idx, _ := alphabet.IndexOf(r)
		m.Step()
		b.WriteRune(alphabet.SymbolAt(m.signal(idx)))
	}
	return b.String(), nil
}

// Positions returns the current rotor offsets.
func (m *Machine) Positions() Positions {
	var p Positions
	for role, r := range m.rotors {
		p[role] = r.Position()
	}
	return p
}

// Clone returns an independent machine with the same key material and rotor state.
func (m *Machine) Clone() *Machine {
	c := &Machine{plugboard: m.plugboard, reflector: m.reflector}
	for role, r := range m.rotors {
		c.rotors[role] = r.Clone()
	}
	return c
}
