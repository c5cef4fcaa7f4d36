package batch

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/TheusHen/Enigma/enigma/alphabet"
	"github.com/TheusHen/Enigma/enigma/machine"
	"github.com/TheusHen/Enigma/enigma/random"
	"github.com/TheusHen/Enigma/enigma/reflector"
	"github.com/TheusHen/Enigma/enigma/rotor"
)

func testFactory(t testing.TB) Factory {
	t.Helper()
	src := random.Seeded([]byte("batch"))
	var cfg machine.Config
	for i := range cfg.Wirings {
		cfg.Wirings[i] = rotor.GenerateWiring(src)
	}
	cfg.Reflector = reflector.Generate(src)
	cfg.Positions = machine.Positions{3, 14, 15}
	return func() (*machine.Machine, error) { return machine.New(cfg) }
}

func TestEncodeMatchesSequential(t *testing.T) {
	factory := testFactory(t)
	messages := make([]string, 64)
	for i := range messages {
		messages[i] = "Message number " + strings.Repeat("x", i%7) + " of the day " + string(alphabet.Symbols[i%alphabet.Size])
	}

	got, err := Encode(context.Background(), factory, messages, 4)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i, msg := range messages {
		m, _ := factory()
		want, err := m.EncodeMessage(msg)
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if got[i] != want {
			t.Fatalf("message %d: got %q, want %q", i, got[i], want)
		}
	}

	// and back
	plain, err := Encode(context.Background(), factory, got, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := range messages {
		if plain[i] != messages[i] {
			t.Fatalf("message %d round trip = %q", i, plain[i])
		}
	}
}

func TestEncodeReportsFailingMessage(t *testing.T) {
	messages := []string{"fine", "also fine", "not fine!", "fine again"}
	_, err := Encode(context.Background(), testFactory(t), messages, 2)
	if !errors.Is(err, alphabet.ErrUnsupportedCharacter) {
		t.Fatalf("expected ErrUnsupportedCharacter, got %v", err)
	}
	var me *MessageError
	if !errors.As(err, &me) || me.Index != 2 {
		t.Fatalf("expected MessageError for index 2, got %v", err)
	}
}

func TestEncodeFactoryError(t *testing.T) {
	boom := errors.New("no key")
	var calls atomic.Int32
	factory := func() (*machine.Machine, error) {
		calls.Add(1)
		return nil, boom
	}
	if _, err := Encode(context.Background(), factory, []string{"a", "b"}, 1); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
	if _, err := Encode(context.Background(), nil, []string{"a"}, 1); !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory, got %v", err)
	}
}

func TestEncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Encode(ctx, testFactory(t), []string{"a", "b", "c"}, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEncodeEmptyBatch(t *testing.T) {
	out, err := Encode(context.Background(), testFactory(t), nil, 2)
	if err != nil || len(out) != 0 {
		t.Fatalf("Encode(nil) = %v, %v", out, err)
	}
}

func BenchmarkEncode(b *testing.B) {
	factory := testFactory(b)
	messages := make([]string, 256)
	for i := range messages {
		messages[i] = "The quick brown fox jumps over the lazy dog"
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(context.Background(), factory, messages, 0); err != nil {
			b.Fatal(err)
		}
	}
}
