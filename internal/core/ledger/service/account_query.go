package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// AccountInfoResult contains account information from the ledger
type AccountInfoResult struct {
	Account       string
	Balance       uint64
	OwnerCount    uint32
	Sequence      uint32
	PreviousTxnID string
}

// GetAccountInfo retrieves account information from the ledger
func (s *Service) GetAccountInfo(ctx context.Context, account string) (*AccountInfoResult, error) {
	id, err := sle.ParseAccountID(account)
	if err != nil {
		return nil, fmt.Errorf("%w: account: %v", ErrMalformed, err)
	}
	root, err := readEntry(ctx, s, keylet.Account(id), sle.ParseAccountRoot)
	if err != nil {
		return nil, err
	}
	return &AccountInfoResult{
		Account:       root.Account.String(),
		Balance:       root.Balance,
		OwnerCount:    root.OwnerCount,
		Sequence:      root.Sequence,
		PreviousTxnID: root.PreviousTxnID.String(),
	}, nil
}

// TokenBalance is one holder's balance of a mint, formatted with the mint's
// decimals.
type TokenBalance struct {
	Holder   string
	Mint     string
	Balance  uint64
	Decimals uint8
	Display  string
}

// GetTokenBalance returns holder's balance of mint. A missing token line
// reads as a zero balance; a missing mint is ErrNotFound.
func (s *Service) GetTokenBalance(ctx context.Context, holder, mint string) (*TokenBalance, error) {
	holderID, err := sle.ParseAccountID(holder)
	if err != nil {
		return nil, fmt.Errorf("%w: holder: %v", ErrMalformed, err)
	}
	mintID, err := sle.ParseHash256(mint)
	if err != nil {
		return nil, fmt.Errorf("%w: mint: %v", ErrMalformed, err)
	}

	m, err := readEntry(ctx, s, keylet.FromKey(entry.TypeMint, mintID), sle.ParseMint)
	if err != nil {
		return nil, err
	}

	var balance uint64
	line, err := readEntry(ctx, s, keylet.TokenLine(holderID, mintID), sle.ParseTokenLine)
	switch {
	case err == nil:
		balance = line.Balance
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	return &TokenBalance{
		Holder:   holderID.String(),
		Mint:     mintID.String(),
		Balance:  balance,
		Decimals: m.Decimals,
		Display:  sle.FormatUnits(balance, m.Decimals),
	}, nil
}

// readEntry reads and decodes the entry at k under a shared lock.
func readEntry[T any](ctx context.Context, s *Service, k keylet.Keylet, parse func([]byte) (*T, error)) (*T, error) {
	data, err := s.store.Read(ctx, k)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}
	v, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", k, err)
	}
	return v, nil
}
