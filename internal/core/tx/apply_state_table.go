package tx

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

var (
	// ErrEntryExists is returned when inserting over a live entry.
	ErrEntryExists = errors.New("entry already exists")

	// ErrEntryNotFound is returned when updating or erasing a missing entry.
	ErrEntryNotFound = errors.New("entry not found")
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // nil for inserts
	Current  []byte
}

// StateReader is the committed state beneath a transaction.
type StateReader interface {
	Get(ctx context.Context, key [32]byte) ([]byte, error)
}

// ApplyStateTable wraps the committed state and buffers every write made by
// one transaction. Nothing reaches the store until the engine commits
// Changes, so a failed transaction leaves no trace.
type ApplyStateTable struct {
	ctx   context.Context
	base  StateReader
	items map[[32]byte]*TrackedEntry
}

var _ sle.LedgerView = (*ApplyStateTable)(nil)

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(ctx context.Context, base StateReader) *ApplyStateTable {
	return &ApplyStateTable{
		ctx:   ctx,
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return nil, nil
		}
		return entry.Current, nil
	}

	data, err := t.base.Get(t.ctx, k.Key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}
	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	data, err := t.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action != ActionErase {
			return ErrEntryExists
		}
		// Re-inserting a deleted entry becomes a modify
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}

	original, err := t.base.Get(t.ctx, k.Key)
	if err != nil {
		return err
	}
	if original != nil {
		return ErrEntryExists
	}

	t.items[k.Key] = &TrackedEntry{
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return ErrEntryNotFound
		}
		if entry.Action == ActionCache {
			entry.Action = ActionModify
		}
		// An insert stays an insert with new data
		entry.Current = data
		return nil
	}

	original, err := t.base.Get(t.ctx, k.Key)
	if err != nil {
		return err
	}
	if original == nil {
		return ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if entry, exists := t.items[k.Key]; exists {
		switch entry.Action {
		case ActionErase:
			return ErrEntryNotFound
		case ActionInsert:
			delete(t.items, k.Key)
		default:
			entry.Action = ActionErase
		}
		return nil
	}

	original, err := t.base.Get(t.ctx, k.Key)
	if err != nil {
		return err
	}
	if original == nil {
		return ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// Changes returns the buffered writes in key order, skipping entries whose
// bytes did not change.
func (t *ApplyStateTable) Changes() []state.Change {
	changes := make([]state.Change, 0, len(t.items))
	for key, entry := range t.items {
		switch entry.Action {
		case ActionInsert:
			changes = append(changes, state.Change{Key: key, Data: entry.Current})
		case ActionModify:
			if bytes.Equal(entry.Original, entry.Current) {
				continue
			}
			changes = append(changes, state.Change{Key: key, Data: entry.Current})
		case ActionErase:
			changes = append(changes, state.Change{Key: key})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].Key[:], changes[j].Key[:]) < 0
	})
	return changes
}

// Metadata describes the buffered writes.
func (t *ApplyStateTable) Metadata() *Metadata {
	meta := &Metadata{AffectedNodes: make([]AffectedNode, 0, len(t.items))}
	for key, entry := range t.items {
		var nodeType string
		data := entry.Current
		switch entry.Action {
		case ActionInsert:
			nodeType = "CreatedNode"
		case ActionModify:
			if bytes.Equal(entry.Original, entry.Current) {
				continue
			}
			nodeType = "ModifiedNode"
		case ActionErase:
			nodeType = "DeletedNode"
			data = entry.Original
		default:
			continue
		}
		meta.AffectedNodes = append(meta.AffectedNodes, AffectedNode{
			NodeType:        nodeType,
			LedgerEntryType: sle.EntryType(data).String(),
			LedgerIndex:     keylet.EncodeKey(key),
		})
	}
	sort.Slice(meta.AffectedNodes, func(i, j int) bool {
		return meta.AffectedNodes[i].LedgerIndex < meta.AffectedNodes[j].LedgerIndex
	})
	return meta
}

// AffectedNode is one ledger entry created, modified or deleted by a
// transaction.
type AffectedNode struct {
	NodeType        string `json:"node_type"`
	LedgerEntryType string `json:"ledger_entry_type"`
	LedgerIndex     string `json:"ledger_index"`
}

// Metadata tracks changes made by a transaction
type Metadata struct {
	AffectedNodes     []AffectedNode `json:"affected_nodes"`
	TransactionResult Result         `json:"-"`
}
