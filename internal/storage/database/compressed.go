package database

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// Value encodings written by Compressed. The first byte of every stored
// value names its encoding.
const (
	encodingRaw byte = 0
	encodingLZ4 byte = 1

	// DefaultCompressThreshold is the value size from which LZ4 is tried.
	DefaultCompressThreshold = 256
)

// Compressed wraps a DB and LZ4-compresses values at or above a size
// threshold. Values that do not shrink are stored raw.
type Compressed struct {
	DB
	threshold int
}

// NewCompressed wraps db. A threshold <= 0 uses DefaultCompressThreshold.
func NewCompressed(db DB, threshold int) *Compressed {
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &Compressed{DB: db, threshold: threshold}
}

func (c *Compressed) Read(ctx context.Context, key []byte) ([]byte, error) {
	stored, err := c.DB.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeValue(stored)
}

func (c *Compressed) Write(ctx context.Context, key, value []byte) error {
	return c.DB.Write(ctx, key, c.encodeValue(value))
}

func (c *Compressed) Batch(ctx context.Context, ops []BatchOperation) error {
	encoded := make([]BatchOperation, len(ops))
	for i, op := range ops {
		encoded[i] = op
		if op.Type == BatchPut {
			encoded[i].Value = c.encodeValue(op.Value)
		}
	}
	return c.DB.Batch(ctx, encoded)
}

func (c *Compressed) Iterator(ctx context.Context, start, end []byte) (Iterator, error) {
	it, err := c.DB.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &decodingIterator{Iterator: it}, nil
}

func (c *Compressed) encodeValue(value []byte) []byte {
	if len(value) >= c.threshold {
		bound := lz4.CompressBlockBound(len(value))
		out := make([]byte, 5+bound)
		n, err := lz4.CompressBlock(value, out[5:], nil)
		// n == 0 means the block is incompressible
		if err == nil && n > 0 && n < len(value) {
			out[0] = encodingLZ4
			binary.BigEndian.PutUint32(out[1:5], uint32(len(value)))
			return out[:5+n]
		}
	}
	out := make([]byte, 1+len(value))
	out[0] = encodingRaw
	copy(out[1:], value)
	return out
}

func decodeValue(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, ErrCorruptValue
	}
	switch stored[0] {
	case encodingRaw:
		out := make([]byte, len(stored)-1)
		copy(out, stored[1:])
		return out, nil
	case encodingLZ4:
		if len(stored) < 5 {
			return nil, ErrCorruptValue
		}
		size := binary.BigEndian.Uint32(stored[1:5])
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(stored[5:], out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptValue, err)
		}
		if n != int(size) {
			return nil, fmt.Errorf("%w: lz4 length %d, want %d", ErrCorruptValue, n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: encoding %d", ErrCorruptValue, stored[0])
	}
}

type decodingIterator struct {
	Iterator
	value []byte
	err   error
}

func (it *decodingIterator) Next() bool {
	if it.err != nil || !it.Iterator.Next() {
		return false
	}
	it.value, it.err = decodeValue(it.Iterator.Value())
	return it.err == nil
}

func (it *decodingIterator) Value() []byte {
	return it.value
}

func (it *decodingIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.Iterator.Error()
}
