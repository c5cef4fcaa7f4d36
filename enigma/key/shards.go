package key

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

var (
	ErrTooManyLost       = errors.New("key: too many shards lost, cannot recover")
	ErrInvalidShardSplit = errors.New("key: invalid data/parity shard configuration")
	ErrShardMismatch     = errors.New("key: shards do not belong together")
)

// Shard is one courier's piece of a daily key. Any Data of the Data+Parity shards
// rebuild the key.
type Shard struct {
	Index   int
	Data    int
	Parity  int
	Payload []byte
}

// shardHeaderSize: index, data count, parity count
const shardHeaderSize = 3

// MarshalBinary encodes a shard as index || data || parity || payload.
func (s Shard) MarshalBinary() ([]byte, error) {
	if s.Index < 0 || s.Index > 255 || s.Data <= 0 || s.Data > 255 || s.Parity < 0 || s.Parity > 255 {
		return nil, ErrInvalidShardSplit
	}
	out := make([]byte, shardHeaderSize+len(s.Payload))
	out[0], out[1], out[2] = byte(s.Index), byte(s.Data), byte(s.Parity)
	copy(out[shardHeaderSize:], s.Payload)
	return out, nil
}

func (s *Shard) UnmarshalBinary(data []byte) error {
	if len(data) <= shardHeaderSize {
		return fmt.Errorf("%w: shard too short", ErrShardMismatch)
	}
	s.Index, s.Data, s.Parity = int(data[0]), int(data[1]), int(data[2])
	if s.Data == 0 || s.Index >= s.Data+s.Parity {
		return fmt.Errorf("%w: bad shard header", ErrShardMismatch)
	}
	s.Payload = append([]byte(nil), data[shardHeaderSize:]...)
	return nil
}

// Split erasure-codes an encoded daily key into dataShards+parityShards pieces.
// The key length is prepended so Join can strip the padding.
func Split(dailyKey []byte, dataShards, parityShards int) ([]Shard, error) {
	if dataShards <= 0 || parityShards <= 0 || dataShards+parityShards > 256 {
		return nil, ErrInvalidShardSplit
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShardSplit, err)
	}
	buf := make([]byte, 4+len(dailyKey))
	binary.BigEndian.PutUint32(buf, uint32(len(dailyKey)))
	copy(buf[4:], dailyKey)

	parts, err := enc.Split(buf)
	if err != nil {
		return nil, err
	}
	if err := enc.Encode(parts); err != nil {
		return nil, err
	}
	shards := make([]Shard, len(parts))
	for i, p := range parts {
		shards[i] = Shard{Index: i, Data: dataShards, Parity: parityShards, Payload: p}
	}
	return shards, nil
}

// Join rebuilds the encoded daily key from whatever shards survived, in any order.
func Join(shards []Shard) ([]byte, error) {
	if len(shards) == 0 {
		return nil, ErrTooManyLost
	}
	data, parity := shards[0].Data, shards[0].Parity
	size := len(shards[0].Payload)
	if data <= 0 || parity <= 0 {
		return nil, ErrInvalidShardSplit
	}
	parts := make([][]byte, data+parity)
	for _, s := range shards {
		if s.Data != data || s.Parity != parity || len(s.Payload) != size {
			return nil, ErrShardMismatch
		}
		if s.Index < 0 || s.Index >= len(parts) {
			return nil, fmt.Errorf("%w: index %d", ErrShardMismatch, s.Index)
		}
		parts[s.Index] = s.Payload
	}

	enc, err := reedsolomon.New(data, parity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShardSplit, err)
	}
	if err := enc.ReconstructData(parts); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return nil, ErrTooManyLost
		}
		return nil, err
	}

	joined := make([]byte, 0, data*size)
	for i := 0; i < data; i++ {
		joined = append(joined, parts[i]...)
	}
	if len(joined) < 4 {
		return nil, ErrShardMismatch
	}
	n := int(binary.BigEndian.Uint32(joined))
	if n > len(joined)-4 {
		return nil, fmt.Errorf("%w: length prefix %d", ErrShardMismatch, n)
	}
	return joined[4 : 4+n], nil
}
