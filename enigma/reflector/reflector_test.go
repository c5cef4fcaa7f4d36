package reflector

import (
	"bytes"
	"errors"
	"testing"

	"github.com/TheusHen/Enigma/enigma/random"
)

func checkInvolution(t *testing.T, r *Reflector) {
	t.Helper()
	fixed := 0
	for i := 0; i < size; i++ {
		if r.Reflect(r.Reflect(i)) != i {
			t.Fatalf("Reflect(Reflect(%d)) != %d", i, i)
		}
		if r.Reflect(i) == i {
			fixed++
			if i != r.FixedPoint() {
				t.Fatalf("unexpected fixed point %d, FixedPoint() = %d", i, r.FixedPoint())
			}
		}
	}
	if fixed != 1 {
		t.Fatalf("expected exactly one fixed point, got %d", fixed)
	}
}

func TestGenerate(t *testing.T) {
	src := random.Seeded([]byte("reflector"))
	for i := 0; i < 20; i++ {
		checkInvolution(t, Generate(src))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(random.Seeded([]byte("x")))
	b := Generate(random.Seeded([]byte("x")))
	if !bytes.Equal(a.Table(), b.Table()) {
		t.Fatalf("same seed produced different reflectors")
	}
}

func TestStandard(t *testing.T) {
	r := Standard()
	checkInvolution(t, r)
	if r.FixedPoint() != 52 {
		t.Fatalf("FixedPoint = %d, want 52", r.FixedPoint())
	}
	if r.Reflect(0) != 1 || r.Reflect(51) != 50 {
		t.Fatalf("unexpected standard pairing")
	}
	if r.Reflect(52) != 52 || r.Table()[52] != 52 {
		t.Fatalf("space should reflect to itself")
	}
}

func TestDerive(t *testing.T) {
	key := []byte("daily key bytes")
	a := Derive(key)
	b := Derive(append([]byte(nil), key...))
	checkInvolution(t, a)
	if !bytes.Equal(a.Table(), b.Table()) {
		t.Fatalf("Derive is not stable for equal keys")
	}
	if bytes.Equal(a.Table(), Derive([]byte("another key")).Table()) {
		t.Fatalf("different keys derived the same reflector")
	}
}

func TestNewValidation(t *testing.T) {
	good := Standard().Table()
	if _, err := New(good); err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := New(good[:52]); !errors.Is(err, ErrNotInvolution) {
		t.Fatalf("short: expected ErrNotInvolution, got %v", err)
	}

	broken := Standard().Table()
	broken[0] = 2 // 0 -> 2 but 2 -> 3
	if _, err := New(broken); !errors.Is(err, ErrNotInvolution) {
		t.Fatalf("expected ErrNotInvolution, got %v", err)
	}

	oor := Standard().Table()
	oor[52] = 60
	if _, err := New(oor); !errors.Is(err, ErrNotInvolution) {
		t.Fatalf("out of range: expected ErrNotInvolution, got %v", err)
	}

	three := Standard().Table()
	three[0], three[1] = 0, 1
	if _, err := New(three); !errors.Is(err, ErrTooManyFixedPoints) {
		t.Fatalf("expected ErrTooManyFixedPoints, got %v", err)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	in := Generate(random.Seeded([]byte("persist")))
	data, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var out Reflector
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !bytes.Equal(in.Table(), out.Table()) || in.FixedPoint() != out.FixedPoint() {
		t.Fatalf("round trip mismatch")
	}
}
