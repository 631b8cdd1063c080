package relationaldb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/tx"
)

// Journal adapts a Repository to the engine's tx.Journal.
type Journal struct {
	repo Repository
}

var _ tx.Journal = (*Journal)(nil)

func NewJournal(repo Repository) *Journal {
	return &Journal{repo: repo}
}

func (j *Journal) Append(ctx context.Context, rec *tx.Record) error {
	entry, err := EntryFromRecord(rec)
	if err != nil {
		return err
	}
	return j.repo.Append(ctx, entry)
}

// EntryFromRecord renders an engine record as a journal row. The
// transaction and its metadata are stored as JSON.
func EntryFromRecord(rec *tx.Record) (*JournalEntry, error) {
	raw, err := tx.ToJSON(rec.Tx)
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}
	var meta []byte
	if rec.Metadata != nil {
		if meta, err = json.Marshal(rec.Metadata); err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
	}
	return &JournalEntry{
		Hash:      Hash(rec.TxID),
		TxType:    rec.Type.String(),
		Account:   rec.Account,
		Sequence:  rec.Sequence,
		Result:    rec.Result.String(),
		Code:      int(rec.Result),
		AppliedAt: rec.AppliedAt,
		RawTxn:    raw,
		TxnMeta:   meta,
	}, nil
}
