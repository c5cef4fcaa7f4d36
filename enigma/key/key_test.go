package key

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/TheusHen/Enigma/enigma/random"
	"github.com/TheusHen/Enigma/enigma/rotor"
)

func TestGenerateLoadRoundTrip(t *testing.T) {
	data, err := GenerateDailyKey(random.Seeded([]byte("daily")))
	if err != nil {
		t.Fatalf("GenerateDailyKey: %v", err)
	}
	if len(data) != EncodedSize {
		t.Fatalf("encoded size = %d, want %d", len(data), EncodedSize)
	}
	ws, err := LoadDailyKey(data)
	if err != nil {
		t.Fatalf("LoadDailyKey: %v", err)
	}
	again, err := Encode(ws)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Fatalf("re-encoded key differs from generated key")
	}

	// the generated wirings are exactly what a seeded source produces
	src := random.Seeded([]byte("daily"))
	for role := range ws {
		if want := rotor.GenerateWiring(src); ws[role] != want {
			t.Fatalf("%s wiring differs from generator output", Roles[role])
		}
	}
}

func TestLoadCorrupt(t *testing.T) {
	data, _ := GenerateDailyKey(random.Seeded([]byte("corrupt")))

	cases := map[string][]byte{
		"empty":     nil,
		"truncated": data[:len(data)-1],
		"trailing":  append(append([]byte(nil), data...), 0),
		"garbage":   bytes.Repeat([]byte{0xff}, EncodedSize),
	}
	for name, in := range cases {
		if _, err := LoadDailyKey(in); !errors.Is(err, ErrCorruptKeyFile) {
			t.Fatalf("%s: expected ErrCorruptKeyFile, got %v", name, err)
		}
	}

	// right size, wrong shape: four short wirings instead of three full ones
	wrong, err := msgpack.Marshal([][]byte{make([]byte, 53), make([]byte, 53), make([]byte, 50), {1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(wrong) != EncodedSize {
		t.Fatalf("fixture size = %d", len(wrong))
	}
	if _, err := LoadDailyKey(wrong); !errors.Is(err, ErrCorruptKeyFile) {
		t.Fatalf("wrong shape: expected ErrCorruptKeyFile, got %v", err)
	}
}

func TestLoadInvalidWiring(t *testing.T) {
	var ws [3]rotor.Wiring
	src := random.Seeded([]byte("invalid"))
	for i := range ws {
		ws[i] = rotor.GenerateWiring(src)
	}

	fixed := ws
	// swap so that medium[k] == k for the k that currently maps to 0
	k := int(fixed[1].Inverse()[0])
	fixed[1][0], fixed[1][k] = fixed[1][k], fixed[1][0]
	data, err := Encode(fixed)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = LoadDailyKey(data)
	if !errors.Is(err, rotor.ErrFixedPointFound) {
		t.Fatalf("expected ErrFixedPointFound, got %v", err)
	}
	var we *WiringError
	if !errors.As(err, &we) || we.Role != "medium" {
		t.Fatalf("expected WiringError for medium rotor, got %v", err)
	}

	dup := ws
	dup[2][0] = dup[2][1]
	data, _ = Encode(dup)
	if _, err := LoadDailyKey(data); !errors.Is(err, rotor.ErrNotAPermutation) {
		t.Fatalf("expected ErrNotAPermutation, got %v", err)
	}
}

func TestIndependentWirings(t *testing.T) {
	data, _ := GenerateDailyKey(random.Crypto())
	ws, err := LoadDailyKey(data)
	if err != nil {
		t.Fatalf("LoadDailyKey: %v", err)
	}
	if ws[0] == ws[1] && ws[1] == ws[2] {
		t.Fatalf("rotors share one wiring")
	}
}
