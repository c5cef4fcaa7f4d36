package plugboard

import (
	"errors"
	"testing"

	"github.com/TheusHen/Enigma/enigma/alphabet"
)

func TestSwapSymmetric(t *testing.T) {
	pb, err := New([]Pair{{0, 1}, {30, 52}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := map[int]int{0: 1, 1: 0, 30: 52, 52: 30, 5: 5}
	for in, want := range cases {
		if got := pb.Swap(in); got != want {
			t.Fatalf("Swap(%d) = %d, want %d", in, got, want)
		}
	}
	for i := 0; i < alphabet.Size; i++ {
		if pb.Swap(pb.Swap(i)) != i {
			t.Fatalf("Swap is not self-inverse at %d", i)
		}
	}
	if pb.Len() != 2 {
		t.Fatalf("Len = %d", pb.Len())
	}
}

func TestPluggedSymbolsNeverMapToThemselves(t *testing.T) {
	pairs := make([]Pair, 0, MaxPairs)
	for i := 0; i < MaxPairs; i++ {
		pairs = append(pairs, Pair{2 * i, 2*i + 1})
	}
	pb, err := New(pairs)
	if err != nil {
		t.Fatalf("New with %d pairs: %v", MaxPairs, err)
	}
	for _, p := range pairs {
		for _, x := range p {
			if pb.Swap(x) == x {
				t.Fatalf("plugged symbol %d maps to itself", x)
			}
		}
	}
}

func TestNewLimits(t *testing.T) {
	pairs := make([]Pair, 0, 14)
	for i := 0; i < 14; i++ {
		pairs = append(pairs, Pair{2 * i, 2*i + 1})
	}
	if _, err := New(pairs); !errors.Is(err, ErrTooManyPairs) {
		t.Fatalf("expected ErrTooManyPairs, got %v", err)
	}
	if _, err := New([]Pair{{7, 7}}); !errors.Is(err, ErrSelfMapping) {
		t.Fatalf("expected ErrSelfMapping, got %v", err)
	}
	if _, err := New([]Pair{{1, 2}, {3, 1}}); !errors.Is(err, ErrDuplicateMapping) {
		t.Fatalf("expected ErrDuplicateMapping, got %v", err)
	}
	if _, err := New([]Pair{{1, 53}}); !errors.Is(err, alphabet.ErrUnsupportedCharacter) {
		t.Fatalf("expected ErrUnsupportedCharacter, got %v", err)
	}
}

func TestEmpty(t *testing.T) {
	pb := Empty()
	for i := 0; i < alphabet.Size; i++ {
		if pb.Swap(i) != i {
			t.Fatalf("empty board swapped %d", i)
		}
	}
}

func TestPairsReturnsCopy(t *testing.T) {
	pb, _ := New([]Pair{{0, 1}})
	p := pb.Pairs()
	p[0] = Pair{5, 6}
	if pb.Pairs()[0] != (Pair{0, 1}) {
		t.Fatalf("Pairs exposed internal state")
	}
}
