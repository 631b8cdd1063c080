// Package state is the account store: ledger entries addressed by keylet,
// persisted in a database.DB, cached in memory and serialized per key.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/storage/database"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 65536

type Config struct {
	// CacheSize is the number of entries kept decoded in memory.
	CacheSize int
}

// Change is one write produced by a transaction. Nil Data erases the key.
type Change struct {
	Key  [32]byte
	Data []byte
}

type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// cached wraps a value so misses can be cached too.
type cached struct {
	data []byte
}

type Store struct {
	db    database.DB
	cache *lru.Cache[[32]byte, cached]
	locks *LockTable

	// fillMu orders cache fills from Get against cache updates from Commit.
	// epoch counts commits; a fill is dropped when one landed during its read.
	fillMu sync.Mutex
	epoch  uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

func New(db database.DB, cfg Config) (*Store, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[[32]byte, cached](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache, locks: NewLockTable()}, nil
}

func (s *Store) Locks() *LockTable {
	return s.locks
}

// Get returns the entry at key, or (nil, nil) when it does not exist. The
// caller must hold a lock covering key. Readers that only hold a lock on key
// itself may run concurrently with a commit writing key under a parent's
// lock; such a read returns what the database held but is not cached.
func (s *Store) Get(ctx context.Context, key [32]byte) ([]byte, error) {
	if c, ok := s.cache.Get(key); ok {
		s.hits.Add(1)
		return c.data, nil
	}
	s.misses.Add(1)

	s.fillMu.Lock()
	epoch := s.epoch
	s.fillMu.Unlock()

	data, err := s.db.Read(ctx, key[:])
	if errors.Is(err, database.ErrKeyNotFound) {
		data, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %x: %w", key, err)
	}
	s.fill(key, epoch, data)
	return data, nil
}

// fill caches data read at epoch unless a commit has happened since.
func (s *Store) fill(key [32]byte, epoch uint64, data []byte) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.cache.Add(key, cached{data: data})
}

// Read takes a shared lock on k for the duration of the read. Used by
// queries that run outside a transaction.
func (s *Store) Read(ctx context.Context, k keylet.Keylet) ([]byte, error) {
	release := s.locks.Acquire([]Access{{Key: k.Key}})
	defer release()
	return s.Get(ctx, k.Key)
}

// Commit writes every change in one atomic batch. The caller must hold
// exclusive locks on all keys.
func (s *Store) Commit(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	ops := make([]database.BatchOperation, len(changes))
	for i, c := range changes {
		key := append([]byte(nil), c.Key[:]...)
		if c.Data == nil {
			ops[i] = database.Del(key)
		} else {
			ops[i] = database.Put(key, c.Data)
		}
	}

	err := s.db.Batch(ctx, ops)

	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.epoch++
	for _, c := range changes {
		if err != nil {
			s.cache.Remove(c.Key)
		} else {
			s.cache.Add(c.Key, cached{data: c.Data})
		}
	}
	return err
}

// ForEach walks every stored entry in key order until fn returns false.
// It takes no locks and may observe entries from concurrently committing
// transactions.
func (s *Store) ForEach(ctx context.Context, fn func(key [32]byte, data []byte) bool) error {
	it, err := s.db.Iterator(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		var key [32]byte
		if len(it.Key()) != len(key) {
			continue
		}
		copy(key[:], it.Key())
		if !fn(key, it.Value()) {
			break
		}
	}
	return it.Error()
}

func (s *Store) Stats() CacheStats {
	return CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   s.cache.Len(),
	}
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

// View binds the store to ctx and exposes it as a read-only base for
// transaction application.
func (s *Store) View(ctx context.Context) *View {
	return &View{store: s, ctx: ctx}
}

// View reads through the store under the caller's locks.
type View struct {
	store *Store
	ctx   context.Context
}

func (v *View) Read(k keylet.Keylet) ([]byte, error) {
	return v.store.Get(v.ctx, k.Key)
}

func (v *View) Exists(k keylet.Keylet) (bool, error) {
	data, err := v.store.Get(v.ctx, k.Key)
	return data != nil, err
}
