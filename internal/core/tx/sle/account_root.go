package sle

import "github.com/LeJamon/goTicketd/internal/core/ledger/entry"

// AccountRoot holds an account's native balance and next sequence.
type AccountRoot struct {
	Account       AccountID `codec:"account" json:"Account"`
	Balance       uint64    `codec:"balance" json:"Balance"`
	Sequence      uint32    `codec:"seq" json:"Sequence"`
	OwnerCount    uint32    `codec:"owners" json:"OwnerCount"`
	PreviousTxnID Hash256   `codec:"prev_tx" json:"PreviousTxnID"`
}

func ParseAccountRoot(data []byte) (*AccountRoot, error) {
	var a AccountRoot
	if err := parse(data, entry.TypeAccountRoot, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func SerializeAccountRoot(a *AccountRoot) ([]byte, error) {
	return serialize(entry.TypeAccountRoot, a)
}
