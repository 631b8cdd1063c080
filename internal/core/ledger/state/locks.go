package state

import (
	"bytes"
	"sort"
	"sync"
)

// Access names one ledger key a transaction touches and whether it writes it.
type Access struct {
	Key      [32]byte
	Writable bool
}

// LockTable serializes transactions per ledger key. Writers hold a key
// exclusively, readers share it. Locks are always taken in ascending key
// order so two transactions can never wait on each other.
type LockTable struct {
	mu    sync.Mutex
	locks map[[32]byte]*keyLock
}

type keyLock struct {
	sync.RWMutex
	refs int
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[[32]byte]*keyLock)}
}

// Normalize merges duplicate keys (a write wins over a read) and sorts the
// result by key.
func Normalize(accesses []Access) []Access {
	merged := make(map[[32]byte]bool, len(accesses))
	for _, a := range accesses {
		merged[a.Key] = merged[a.Key] || a.Writable
	}
	out := make([]Access, 0, len(merged))
	for k, w := range merged {
		out = append(out, Access{Key: k, Writable: w})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Key[:], out[j].Key[:]) < 0
	})
	return out
}

// Acquire blocks until every access is granted and returns the function that
// releases them.
func (t *LockTable) Acquire(accesses []Access) (release func()) {
	ordered := Normalize(accesses)

	held := make([]*keyLock, len(ordered))
	t.mu.Lock()
	for i, a := range ordered {
		l, ok := t.locks[a.Key]
		if !ok {
			l = &keyLock{}
			t.locks[a.Key] = l
		}
		l.refs++
		held[i] = l
	}
	t.mu.Unlock()

	for i, a := range ordered {
		if a.Writable {
			held[i].Lock()
		} else {
			held[i].RLock()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(ordered) - 1; i >= 0; i-- {
				if ordered[i].Writable {
					held[i].Unlock()
				} else {
					held[i].RUnlock()
				}
			}
			t.mu.Lock()
			for i, a := range ordered {
				held[i].refs--
				if held[i].refs == 0 {
					delete(t.locks, a.Key)
				}
			}
			t.mu.Unlock()
		})
	}
}

// Len returns the number of keys currently held or awaited.
func (t *LockTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
