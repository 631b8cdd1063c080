// Package compressed wraps a database.DB so values are stored compressed.
// Keys are left untouched so range iteration keeps its ordering.
package compressed

import (
	"context"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/storage/compression"
	"github.com/LeJamon/goTicketd/internal/storage/database"
)

type DB struct {
	inner database.DB
	c     compression.Compressor
}

func New(inner database.DB, c compression.Compressor) *DB {
	return &DB{inner: inner, c: c}
}

func (d *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	raw, err := d.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	out, err := d.c.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompress %x: %w", key, err)
	}
	return out, nil
}

func (d *DB) Write(ctx context.Context, key, value []byte) error {
	enc, err := d.c.Compress(value)
	if err != nil {
		return err
	}
	return d.inner.Write(ctx, key, enc)
}

func (d *DB) Delete(ctx context.Context, key []byte) error {
	return d.inner.Delete(ctx, key)
}

func (d *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	encoded := make([]database.BatchOperation, len(ops))
	for i, op := range ops {
		encoded[i] = op
		if op.Type != database.BatchPut {
			continue
		}
		enc, err := d.c.Compress(op.Value)
		if err != nil {
			return err
		}
		encoded[i].Value = enc
	}
	return d.inner.Batch(ctx, encoded)
}

func (d *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	it, err := d.inner.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &iterator{inner: it, c: d.c}, nil
}

func (d *DB) Close() error {
	return d.inner.Close()
}

type iterator struct {
	inner database.Iterator
	c     compression.Compressor
	value []byte
	err   error
}

func (it *iterator) Next() bool {
	if it.err != nil || !it.inner.Next() {
		return false
	}
	it.value, it.err = it.c.Decompress(it.inner.Value())
	return it.err == nil
}

func (it *iterator) Key() []byte   { return it.inner.Key() }
func (it *iterator) Value() []byte { return it.value }

func (it *iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.inner.Error()
}

func (it *iterator) Close() error { return it.inner.Close() }
