package traffic

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/TheusHen/Enigma/enigma"
	"github.com/TheusHen/Enigma/enigma/machine"
	"github.com/TheusHen/Enigma/enigma/random"
)

func testStation(t *testing.T) *enigma.Station {
	t.Helper()
	ctx := context.Background()
	data, err := enigma.GenerateKey(ctx, random.Seeded([]byte("traffic")))
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	st, err := enigma.NewStation(ctx, data, nil)
	if err != nil {
		t.Fatalf("NewStation: %v", err)
	}
	return st
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := testStation(t)
	plain := []string{"Weather report", "Attack at dawn", strings.Repeat("Convoy sighted ", 40)}
	indicators := []string{"abc", "XYZ", "q Q"}
	sent := time.Date(1941, time.May, 9, 6, 0, 0, 0, time.UTC)

	a := New()
	for i, msg := range plain {
		ct, err := st.Encode(ctx, indicators[i], msg)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if err := a.Add(Entry{Indicator: indicators[i], Ciphertext: ct, Sent: sent.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	data, err := a.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.HasPrefix(data, archiveMagic) {
		t.Fatalf("archive lacks magic prefix")
	}

	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if restored.Len() != len(plain) {
		t.Fatalf("restored %d entries, want %d", restored.Len(), len(plain))
	}
	for i, e := range restored.Entries() {
		if !e.Sent.Equal(sent.Add(time.Duration(i) * time.Hour)) {
			t.Fatalf("entry %d sent = %v", i, e.Sent)
		}
	}

	got, err := restored.Decrypt(ctx, st)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	for i := range plain {
		if got[i] != plain[i] {
			t.Fatalf("entry %d = %q, want %q", i, got[i], plain[i])
		}
	}
}

func TestAddRejectsBadIndicator(t *testing.T) {
	a := New()
	if err := a.Add(Entry{Indicator: "ab", Ciphertext: "x"}); !errors.Is(err, machine.ErrInvalidStartPositions) {
		t.Fatalf("expected ErrInvalidStartPositions, got %v", err)
	}
	if a.Len() != 0 {
		t.Fatalf("rejected entry was stored")
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	a := New()
	_ = a.Add(Entry{Indicator: "aaa", Ciphertext: "hello"})
	data, _ := a.Marshal()

	cases := map[string][]byte{
		"empty":     nil,
		"no magic":  data[len(archiveMagic):],
		"truncated": data[:len(data)-12],
		"garbage":   append(append([]byte(nil), archiveMagic...), 1, 2, 3, 4, 5),
	}
	for name, in := range cases {
		if _, err := Unmarshal(in); !errors.Is(err, ErrCorruptArchive) {
			t.Fatalf("%s: expected ErrCorruptArchive, got %v", name, err)
		}
	}
}

func TestUnmarshalSizeLimit(t *testing.T) {
	a := New()
	for i := 0; i < 64; i++ {
		_ = a.Add(Entry{Indicator: "aaa", Ciphertext: strings.Repeat("z", 4096)})
	}
	data, err := a.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) > 64*4096/8 {
		t.Fatalf("fixture did not compress: %d bytes", len(data))
	}

	if _, err := unmarshalLimit(data, 64*1024); !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("expected ErrCorruptArchive past the limit, got %v", err)
	}
	got, err := unmarshalLimit(data, MaxArchiveSize)
	if err != nil {
		t.Fatalf("unmarshalLimit: %v", err)
	}
	if got.Len() != 64 {
		t.Fatalf("Len = %d, want 64", got.Len())
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	a := New()
	_ = a.Add(Entry{Indicator: "aaa", Ciphertext: "x"})
	es := a.Entries()
	es[0].Ciphertext = "changed"
	if a.Entries()[0].Ciphertext != "x" {
		t.Fatalf("Entries exposed internal state")
	}
}

func TestDecryptReportsEntry(t *testing.T) {
	a := New()
	_ = a.Add(Entry{Indicator: "aaa", Ciphertext: "ok"})
	_ = a.Add(Entry{Indicator: "aaa", Ciphertext: ""})
	if _, err := a.Decrypt(context.Background(), testStation(t)); !errors.Is(err, machine.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}
