package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
)

// SubmitResult contains the result of submitting a transaction
type SubmitResult struct {
	// Result is the engine result code
	Result tx.Result

	// Applied indicates if the transaction was applied to the ledger
	Applied bool

	// Message is a human-readable result message
	Message string

	// TxID is the transaction hash, empty if preflight rejected it
	TxID string

	// Metadata contains the changes made by the transaction
	Metadata *tx.Metadata

	// Transaction is the decoded transaction
	Transaction tx.Transaction
}

// SubmitTransaction applies a decoded transaction.
func (s *Service) SubmitTransaction(ctx context.Context, transaction tx.Transaction) (*SubmitResult, error) {
	engine, err := s.started()
	if err != nil {
		return nil, err
	}
	res := engine.Apply(ctx, transaction)
	return &SubmitResult{
		Result:      res.Result,
		Applied:     res.Applied,
		Message:     res.Message,
		TxID:        res.TxID,
		Metadata:    res.Metadata,
		Transaction: transaction,
	}, nil
}

// Submit decodes a signed JSON transaction and applies it.
func (s *Service) Submit(ctx context.Context, txJSON []byte) (*SubmitResult, error) {
	transaction, err := tx.FromJSON(txJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: tx_json: %v", ErrMalformed, err)
	}
	return s.SubmitTransaction(ctx, transaction)
}

// GetTransaction looks up an applied transaction in the journal.
func (s *Service) GetTransaction(ctx context.Context, hash string) (*relationaldb.JournalEntry, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	h, err := relationaldb.ParseHash(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	e, err := s.journal.Get(ctx, h)
	if errors.Is(err, relationaldb.ErrTransactionNotFound) {
		return nil, ErrNotFound
	}
	return e, err
}

// GetAccountTransactions lists up to limit transactions signed by account,
// newest first.
func (s *Service) GetAccountTransactions(ctx context.Context, account string, limit int) ([]relationaldb.JournalEntry, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	entries, err := s.journal.ListByAccount(ctx, account, limit)
	if errors.Is(err, relationaldb.ErrInvalidLimit) {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrMalformed, relationaldb.MaxListLimit)
	}
	return entries, err
}
