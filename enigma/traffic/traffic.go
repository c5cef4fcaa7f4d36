// Package traffic keeps an archive of enciphered messages.
//
// Each entry stores the indicator (the start positions used for that message) next to
// the ciphertext, which is all a station holding the same daily key needs to read it.
// On disk an archive is a magic prefix followed by an LZ4 frame of msgpack data.
package traffic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/TheusHen/Enigma/enigma"
	"github.com/TheusHen/Enigma/enigma/machine"
)

var ErrCorruptArchive = errors.New("traffic: corrupt archive")

var archiveMagic = []byte("ENIGLOG1")

// MaxArchiveSize limits the decompressed msgpack data of one archive.
const MaxArchiveSize = 64 << 20 // 64 MiB

// Entry is one intercepted or transmitted message.
type Entry struct {
	Indicator  string    `msgpack:"indicator"`
	Ciphertext string    `msgpack:"ciphertext"`
	Sent       time.Time `msgpack:"sent"`
}

// Archive is safe for concurrent use.
type Archive struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Archive { return &Archive{} }

// Add appends an entry. The indicator must be a valid set of start positions.
func (a *Archive) Add(e Entry) error {
	if _, err := machine.ParsePositions(e.Indicator); err != nil {
		return err
	}
	a.mu.Lock()
	a.entries = append(a.entries, e)
	a.mu.Unlock()
	return nil
}

// Entries returns a copy of the archived entries in insertion order.
func (a *Archive) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Entry(nil), a.entries...)
}

func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Marshal serializes the archive.
func (a *Archive) Marshal() ([]byte, error) {
	raw, err := msgpack.Marshal(a.Entries())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(archiveMagic)
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lz4.Level4)); err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal reads an archive written by Marshal.
func Unmarshal(data []byte) (*Archive, error) {
	if !bytes.HasPrefix(data, archiveMagic) {
		return nil, fmt.Errorf("%w: missing header", ErrCorruptArchive)
	}
	return unmarshalLimit(data, MaxArchiveSize)
}

func unmarshalLimit(data []byte, limit int64) (*Archive, error) {
	zr := lz4.NewReader(bytes.NewReader(data[len(archiveMagic):]))
	raw, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes decompressed", ErrCorruptArchive, limit)
	}
	var entries []Entry
	if err := msgpack.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	a := New()
	for i, e := range entries {
		if err := a.Add(e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrCorruptArchive, i, err)
		}
	}
	return a, nil
}

// Decrypt reads every entry with the station's key. The result is in entry order.
func (a *Archive) Decrypt(ctx context.Context, st *enigma.Station) ([]string, error) {
	entries := a.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		pt, err := st.Encode(ctx, e.Indicator, e.Ciphertext)
		if err != nil {
			return nil, fmt.Errorf("traffic: entry %d: %w", i, err)
		}
		out[i] = pt
	}
	return out, nil
}
