// Package random provides the randomness used to generate rotor wirings and reflectors.
//
// Generation code never reaches for a global generator; it takes a Source, so tests
// can pass a Seeded source and get exactly the same permutations every run.
package random

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

// Source produces uniformly distributed choices.
type Source interface {
	// Intn returns a uniform value in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Perm returns a uniform random permutation of [0, n).
	Perm(n int) []int
}

// readerSource turns a byte stream into uniform integers.
type readerSource struct {
	r   io.Reader
	buf [4]byte
}

// Crypto returns a Source backed by crypto/rand.
func Crypto() Source {
	return &readerSource{r: rand.Reader}
}

// FromReader returns a Source that draws bytes from r. A read failure panics;
// callers must supply an endless stream.
func FromReader(r io.Reader) Source {
	return &readerSource{r: r}
}

// Seeded returns a deterministic Source. The seed is hashed into a ChaCha20 key and
// the keystream is used as the byte stream, so equal seeds yield equal sequences.
func Seeded(seed []byte) Source {
	key := sha256.Sum256(seed)
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		// key and nonce sizes are fixed above
		panic(err)
	}
	return &readerSource{r: &keystream{c: c}}
}

type keystream struct {
	c *chacha20.Cipher
}

func (k *keystream) Read(p []byte) (int, error) {
	clear(p)
	k.c.XORKeyStream(p, p)
	return len(p), nil
}

func (s *readerSource) uint32() uint32 {
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		panic(fmt.Sprintf("random: entropy source failed: %v", err))
	}
	return binary.BigEndian.Uint32(s.buf[:])
}

func (s *readerSource) Intn(n int) int {
	if n <= 0 {
		panic("random: Intn called with n <= 0")
	}
	bound := uint32(n)
	// Reject the tail of the range that would bias the modulo.
	limit := (1<<32 - 1) - (1<<32-1)%bound
	for {
		v := s.uint32()
		if v < limit {
			return int(v % bound)
		}
	}
}

// Perm is a Fisher-Yates shuffle of the identity.
func (s *readerSource) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := s.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}
