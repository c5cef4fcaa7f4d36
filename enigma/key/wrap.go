package key

import (
	"bytes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrNotWrapped        = errors.New("key: not a wrapped key file")
	ErrUnwrapFailed      = errors.New("key: wrong station key or tampered wrapped key")
	ErrInvalidStationKey = errors.New("key: invalid station key")
)

const (
	wrapMagic   = "ENIGWRAP"
	wrapVersion = 1
	wrapInfo    = "enigma-wrap-v1"
)

// StationKeys is an ML-KEM-768 key pair. Headquarters wraps each day's key to a
// station's public key; only that station's private key unwraps it.
type StationKeys struct {
	Public  []byte
	Private []byte
}

func scheme() kem.Scheme { return mlkem768.Scheme() }

// GenerateStationKeys creates a new station key pair.
func GenerateStationKeys() (StationKeys, error) {
	pub, priv, err := scheme().GenerateKeyPair()
	if err != nil {
		return StationKeys{}, err
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return StationKeys{}, err
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return StationKeys{}, err
	}
	return StationKeys{Public: pubBytes, Private: privBytes}, nil
}

// IsWrapped reports whether data starts with the wrapped key header.
func IsWrapped(data []byte) bool {
	return bytes.HasPrefix(data, []byte(wrapMagic))
}

func wrapHeaderSize() int { return len(wrapMagic) + 1 + scheme().CiphertextSize() }

// Wrap encrypts data (a plain or sealed daily key) to a station's public key.
// Format: magic || version || KEM ciphertext || nonce (12) || ciphertext || tag (16).
// Everything before the nonce is authenticated.
func Wrap(stationPublic, data []byte) ([]byte, error) {
	pub, err := scheme().UnmarshalBinaryPublicKey(stationPublic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStationKey, err)
	}
	ct, shared, err := scheme().Encapsulate(pub)
	if err != nil {
		return nil, err
	}
	aead, err := wrapAEAD(shared, ct)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, wrapHeaderSize()+aead.NonceSize()+len(data)+aead.Overhead())
	out = append(out, wrapMagic...)
	out = append(out, wrapVersion)
	out = append(out, ct...)
	header := out

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, header), nil
}

// Unwrap reverses Wrap with the station's private key.
func Unwrap(stationPrivate, wrapped []byte) ([]byte, error) {
	if !IsWrapped(wrapped) {
		return nil, ErrNotWrapped
	}
	hs := wrapHeaderSize()
	if len(wrapped) < hs+chacha20poly1305.NonceSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: too short", ErrNotWrapped)
	}
	if wrapped[len(wrapMagic)] != wrapVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrNotWrapped, wrapped[len(wrapMagic)])
	}
	priv, err := scheme().UnmarshalBinaryPrivateKey(stationPrivate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStationKey, err)
	}

	header := wrapped[:hs]
	ct := header[len(wrapMagic)+1:]
	shared, err := scheme().Decapsulate(priv, ct)
	if err != nil {
		return nil, ErrUnwrapFailed
	}
	aead, err := wrapAEAD(shared, ct)
	if err != nil {
		return nil, err
	}
	nonce := wrapped[hs : hs+aead.NonceSize()]
	plain, err := aead.Open(nil, nonce, wrapped[hs+aead.NonceSize():], header)
	if err != nil {
		return nil, ErrUnwrapFailed
	}
	return plain, nil
}

// wrapAEAD derives the content key from the KEM shared secret, salted with the
// hash of the KEM ciphertext.
func wrapAEAD(shared, ct []byte) (cipher.AEAD, error) {
	salt := sha256.Sum256(ct)
	k := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, salt[:], []byte(wrapInfo)), k); err != nil {
		return nil, err
	}
	return chacha20poly1305.New(k)
}
