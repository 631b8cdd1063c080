// Package relationaldb keeps an append-only SQL journal of applied
// transactions. Drivers live in the postgres and sqlite subpackages and
// register themselves with Register.
package relationaldb

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Hash is a 256-bit transaction hash.
type Hash [32]byte

func (h Hash) String() string { return strings.ToUpper(hex.EncodeToString(h[:])) }

// ParseHash decodes a 64 character hex hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(h) {
		return h, fmt.Errorf("%w: %q", ErrInvalidTransactionHash, s)
	}
	copy(h[:], b)
	return h, nil
}

// JournalEntry is one applied transaction as stored in the journal.
type JournalEntry struct {
	// Index is assigned by the store and increases with every append.
	Index     int64     `json:"index"`
	Hash      Hash      `json:"hash"`
	TxType    string    `json:"tx_type"`
	Account   string    `json:"account"`
	Sequence  uint32    `json:"sequence"`
	Result    string    `json:"result"`
	Code      int       `json:"code"`
	AppliedAt time.Time `json:"applied_at"`
	RawTxn    []byte    `json:"raw_txn"`
	TxnMeta   []byte    `json:"txn_meta,omitempty"`
}

// Repository is the journal store.
type Repository interface {
	// Append stores e and sets e.Index. Appending a hash twice fails with
	// ErrDuplicateEntry.
	Append(ctx context.Context, e *JournalEntry) error

	// Get returns the entry for hash or ErrTransactionNotFound.
	Get(ctx context.Context, hash Hash) (*JournalEntry, error)

	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]JournalEntry, error)

	// ListByAccount returns up to limit entries signed by account, newest first.
	ListByAccount(ctx context.Context, account string, limit int) ([]JournalEntry, error)

	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// MaxListLimit caps ListRecent and ListByAccount.
const MaxListLimit = 1000
