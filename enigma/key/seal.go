package key

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrNotSealed        = errors.New("key: not a sealed key file")
	ErrDecryptionFailed = errors.New("key: wrong passphrase or tampered key file")
	ErrEmptyPassphrase  = errors.New("key: empty passphrase")
)

const (
	sealMagic   = "ENIGSEAL"
	sealVersion = 1
	saltSize    = 16

	// maxSealMemory bounds the Argon2 memory a sealed file may ask for (1 GiB in KiB).
	maxSealMemory = 1 << 20
)

// Params are the Argon2id cost parameters recorded in a sealed file.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams follow the argon2 package recommendation for interactive use.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// headerSize: magic || version || time (4) || memory (4) || threads (1) || salt
const headerSize = len(sealMagic) + 1 + 4 + 4 + 1 + saltSize

// IsSealed reports whether data starts with the sealed key header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(sealMagic))
}

// Seal encrypts an encoded daily key under a passphrase with DefaultParams.
func Seal(dailyKey, passphrase []byte) ([]byte, error) {
	return SealWithParams(dailyKey, passphrase, DefaultParams)
}

// SealWithParams encrypts dailyKey with ChaCha20-Poly1305 under a key stretched from
// passphrase by Argon2id.
// Format: header || nonce (12) || ciphertext || tag (16); the header is authenticated.
func SealWithParams(dailyKey, passphrase []byte, p Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 || p.Memory > maxSealMemory {
		return nil, fmt.Errorf("key: invalid argon2 parameters %+v", p)
	}

	header := make([]byte, headerSize)
	n := copy(header, sealMagic)
	header[n] = sealVersion
	n++
	binary.BigEndian.PutUint32(header[n:], p.Time)
	n += 4
	binary.BigEndian.PutUint32(header[n:], p.Memory)
	n += 4
	header[n] = p.Threads
	n++
	salt := header[n:]
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(stretch(passphrase, salt, p))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(dailyKey)+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, dailyKey, header), nil
}

// Open decrypts a sealed key file and returns the encoded daily key.
func Open(sealed, passphrase []byte) ([]byte, error) {
	if !IsSealed(sealed) || len(sealed) < headerSize+chacha20poly1305.NonceSize+chacha20poly1305.Overhead {
		return nil, ErrNotSealed
	}
	header := sealed[:headerSize]
	n := len(sealMagic)
	if header[n] != sealVersion {
		return nil, fmt.Errorf("%w: version %d", ErrNotSealed, header[n])
	}
	n++
	p := Params{
		Time:    binary.BigEndian.Uint32(header[n:]),
		Memory:  binary.BigEndian.Uint32(header[n+4:]),
		Threads: header[n+8],
	}
	n += 9
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 || p.Memory > maxSealMemory {
		return nil, fmt.Errorf("%w: invalid argon2 parameters", ErrNotSealed)
	}
	salt := header[n:]

	aead, err := chacha20poly1305.New(stretch(passphrase, salt, p))
	if err != nil {
		return nil, err
	}
	rest := sealed[headerSize:]
	nonce, ct := rest[:chacha20poly1305.NonceSize], rest[chacha20poly1305.NonceSize:]
	plain, err := aead.Open(nil, nonce, ct, header)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plain, nil
}

func stretch(passphrase, salt []byte, p Params) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize)
}
