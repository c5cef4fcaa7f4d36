// Package rotor models a single cipher wheel.
//
// A rotor is a tiny state machine: its state is the rotation offset in [0, 53), the only
// transition is Step, and it wraps forever. The wiring is a derangement of the alphabet
// indices so no contact is wired straight through. Which rotor steps when is decided by
// the owning machine, never by the rotor itself.
package rotor
