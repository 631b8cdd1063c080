// Package redis adapts a Redis server to database.DB so several daemons can
// share one state store. Values live under "<prefix>:v:<key>" and a sorted
// set "<prefix>:idx" indexes keys lexicographically for iteration.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/storage/database"
	goredis "github.com/redis/go-redis/v9"
)

type DB struct {
	client goredis.UniversalClient
	prefix string
}

// New wraps an existing client. prefix namespaces every key.
func New(client goredis.UniversalClient, prefix string) *DB {
	return &DB{client: client, prefix: prefix}
}

// Open connects to the server described by a redis:// URL.
func Open(ctx context.Context, url, prefix string) (*DB, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, prefix), nil
}

func (r *DB) valueKey(key []byte) string {
	return r.prefix + ":v:" + string(key)
}

func (r *DB) indexKey() string {
	return r.prefix + ":idx"
}

func (r *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if r.client == nil {
		return nil, database.ErrDBClosed
	}
	val, err := r.client.Get(ctx, r.valueKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, database.ErrKeyNotFound
	}
	return val, err
}

func (r *DB) Write(ctx context.Context, key, value []byte) error {
	return r.Batch(ctx, []database.BatchOperation{database.Put(key, value)})
}

func (r *DB) Delete(ctx context.Context, key []byte) error {
	return r.Batch(ctx, []database.BatchOperation{database.Del(key)})
}

// Batch runs every operation inside one MULTI/EXEC block.
func (r *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if r.client == nil {
		return database.ErrDBClosed
	}
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, op := range ops {
			switch op.Type {
			case database.BatchPut:
				pipe.Set(ctx, r.valueKey(op.Key), op.Value, 0)
				pipe.ZAdd(ctx, r.indexKey(), goredis.Z{Score: 0, Member: string(op.Key)})
			case database.BatchDelete:
				pipe.Del(ctx, r.valueKey(op.Key))
				pipe.ZRem(ctx, r.indexKey(), string(op.Key))
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", database.ErrBatchOperationFailed, err)
	}
	return nil
}

// Iterator loads the matching range eagerly.
func (r *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if r.client == nil {
		return nil, database.ErrDBClosed
	}

	rng := &goredis.ZRangeBy{Min: "-", Max: "+"}
	if start != nil {
		rng.Min = "[" + string(start)
	}
	if end != nil {
		rng.Max = "(" + string(end)
	}
	keys, err := r.client.ZRangeByLex(ctx, r.indexKey(), rng).Result()
	if err != nil {
		return nil, err
	}

	it := &Iterator{position: -1}
	if len(keys) == 0 {
		return it, nil
	}

	valueKeys := make([]string, len(keys))
	for i, k := range keys {
		valueKeys[i] = r.valueKey([]byte(k))
	}
	values, err := r.client.MGet(ctx, valueKeys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		it.keys = append(it.keys, []byte(keys[i]))
		it.values = append(it.values, []byte(s))
	}
	return it, nil
}

func (r *DB) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

type Iterator struct {
	keys     [][]byte
	values   [][]byte
	position int
}

func (it *Iterator) Next() bool {
	it.position++
	return it.position < len(it.keys)
}

func (it *Iterator) Key() []byte   { return it.keys[it.position] }
func (it *Iterator) Value() []byte { return it.values[it.position] }
func (it *Iterator) Error() error  { return nil }
func (it *Iterator) Close() error  { return nil }
