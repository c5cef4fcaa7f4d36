// Package enigma is a simulation of a three-rotor cipher machine with a 53-symbol
// alphabet (a-z, A-Z and space).
//
// The engine lives in the subpackages: rotor, plugboard, reflector and machine, with the
// daily key file in key. This package ties them together: a Station holds one day's key
// material and hands out a fresh Machine per message, which is what makes independent
// messages safe to encipher concurrently.
package enigma
