// Package key reads and writes the daily key: the wirings of the fast, medium and slow
// rotors.
//
// The encoded form is a msgpack array of three 53-byte bin values, 166 bytes in all.
// Loading is strict: any framing or size mismatch is ErrCorruptKeyFile and every wiring
// must be a derangement.
//
// Optional layers protect the key outside the machine:
//   - Seal/Open wrap it in ChaCha20-Poly1305 under an Argon2id-stretched passphrase
//   - Split/Join erasure-code it with Reed-Solomon so couriers may lose some shards
//   - Wrap/Unwrap encrypt it to one station's ML-KEM-768 public key
package key
