package compression

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4"
)

// hashTableSize matches the table size lz4 block compression requires.
const hashTableSize = 1 << 16

var hashTables = sync.Pool{
	New: func() any { return make([]int, hashTableSize) },
}

const (
	blockRaw byte = 0
	blockLZ4 byte = 1
)

var ErrCorrupt = errors.New("compressed block is corrupt")

// NoCompressor passes data through unchanged.
type NoCompressor struct{}

func (c *NoCompressor) Name() string { return "none" }

func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// LZ4Compressor frames each value as
//
//	kind(1) | uvarint(original length) | payload
//
// where kind is raw when lz4 could not shrink the input.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string { return "lz4" }

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	header := make([]byte, 1+binary.MaxVarintLen64)
	n := binary.PutUvarint(header[1:], uint64(len(data)))
	header = header[:1+n]

	ht := hashTables.Get().([]int)
	defer func() {
		clear(ht)
		hashTables.Put(ht)
	}()

	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	size, err := lz4.CompressBlock(data, buf, ht)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	if size == 0 || size >= len(data) {
		header[0] = blockRaw
		return append(header, data...), nil
	}
	header[0] = blockLZ4
	return append(header, buf[:size]...), nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, ErrCorrupt
	}
	length, n := binary.Uvarint(data[1:])
	if n <= 0 {
		return nil, ErrCorrupt
	}
	payload := data[1+n:]

	switch data[0] {
	case blockRaw:
		if uint64(len(payload)) != length {
			return nil, ErrCorrupt
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	case blockLZ4:
		out := make([]byte, length)
		got, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(got) != length {
			return nil, ErrCorrupt
		}
		return out, nil
	default:
		return nil, ErrCorrupt
	}
}
