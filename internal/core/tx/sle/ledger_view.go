package sle

import "github.com/LeJamon/goTicketd/internal/core/ledger/keylet"

// LedgerView provides read/write access to ledger state.
// Read returns (nil, nil) for a missing entry.
type LedgerView interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
}
