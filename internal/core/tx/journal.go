package tx

//go:generate mockgen -destination=txmock/journal_mock.go -package=txmock github.com/LeJamon/goTicketd/internal/core/tx Journal

import (
	"context"
	"errors"
	"time"
)

// Record describes one applied transaction.
type Record struct {
	TxID      [32]byte
	Type      Type
	Account   string
	Sequence  uint32
	Result    Result
	AppliedAt time.Time
	Tx        Transaction
	Metadata  *Metadata
}

// Journal receives every applied transaction after it has been committed.
// Append errors are logged by the engine; the ledger state is not rolled back.
type Journal interface {
	Append(ctx context.Context, rec *Record) error
}

// Observer is told about every transaction the engine processes, applied
// or not.
type Observer interface {
	Observe(t Type, result Result, elapsed time.Duration)
}

// MultiJournal fans a record out to several journals.
type MultiJournal []Journal

func (m MultiJournal) Append(ctx context.Context, rec *Record) error {
	var errs []error
	for _, j := range m {
		if j == nil {
			continue
		}
		if err := j.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
