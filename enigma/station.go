package enigma

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/TheusHen/Enigma/enigma/key"
	"github.com/TheusHen/Enigma/enigma/machine"
	"github.com/TheusHen/Enigma/enigma/plugboard"
	"github.com/TheusHen/Enigma/enigma/random"
	"github.com/TheusHen/Enigma/enigma/reflector"
	"github.com/TheusHen/Enigma/enigma/rotor"
)

// Station holds one day's key material. It is immutable and safe for concurrent use;
// every message gets its own Machine.
type Station struct {
	wirings   [3]rotor.Wiring
	plugboard *plugboard.Plugboard
	reflector *reflector.Reflector
}

// GenerateKey creates a new encoded daily key from src.
func GenerateKey(ctx context.Context, src random.Source) ([]byte, error) {
	data, err := key.GenerateDailyKey(src)
	emitKeyGenerated(ctx, len(data), err)
	return data, err
}

// NewStation loads an encoded daily key. The reflector is derived from the key bytes,
// so every station built from the same key file uses the same reflector.
// A nil plugboard means no cables.
func NewStation(ctx context.Context, dailyKey []byte, pb *plugboard.Plugboard) (*Station, error) {
	if pb == nil {
		pb = plugboard.Empty()
	}
	wirings, err := key.LoadDailyKey(dailyKey)
	emitKeyLoaded(ctx, len(dailyKey), pb.Len(), err)
	if err != nil {
		return nil, err
	}
	return &Station{
		wirings:   wirings,
		plugboard: pb,
		reflector: reflector.Derive(dailyKey),
	}, nil
}

// NewStationWithReflector builds a station from already-validated wirings and an
// explicit reflector.
func NewStationWithReflector(wirings [3]rotor.Wiring, pb *plugboard.Plugboard, refl *reflector.Reflector) (*Station, error) {
	if pb == nil {
		pb = plugboard.Empty()
	}
	// validate once here so Machine never fails for key reasons
	if _, err := machine.New(machine.Config{Wirings: wirings, Plugboard: pb, Reflector: refl}); err != nil {
		return nil, err
	}
	return &Station{wirings: wirings, plugboard: pb, reflector: refl}, nil
}

func (s *Station) Plugboard() *plugboard.Plugboard { return s.plugboard }

func (s *Station) Reflector() *reflector.Reflector { return s.reflector }

// Machine returns a fresh machine at the given start positions, e.g. "aaa".
func (s *Station) Machine(positions string) (*machine.Machine, error) {
	p, err := machine.ParsePositions(positions)
	if err != nil {
		return nil, err
	}
	return s.MachineAt(p)
}

// MachineAt returns a fresh machine at explicit rotor offsets.
func (s *Station) MachineAt(p machine.Positions) (*machine.Machine, error) {
	return machine.New(machine.Config{
		Wirings:   s.wirings,
		Plugboard: s.plugboard,
		Reflector: s.reflector,
		Positions: p,
	})
}

// Encode enciphers (or deciphers) one message from the given start positions.
func (s *Station) Encode(ctx context.Context, positions, text string) (string, error) {
	start := time.Now()
	m, err := s.Machine(positions)
	if err != nil {
		emitMessageEncoded(ctx, positions, utf8.RuneCountInString(text), time.Since(start), err)
		return "", err
	}
	out, err := m.EncodeMessage(text)
	emitMessageEncoded(ctx, positions, utf8.RuneCountInString(text), time.Since(start), err)
	return out, err
}
