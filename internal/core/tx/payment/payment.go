// Package payment implements the value-ledger transactions: native
// payments and fungible token mints.
package payment

import (
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypePayment, func() tx.Transaction {
		return &Payment{BaseTx: *tx.NewBaseTx(tx.TypePayment, "")}
	})
}

// Payment moves native units between accounts. Paying a missing account
// creates it.
type Payment struct {
	tx.BaseTx

	// Destination is the receiving account (required)
	Destination string `json:"Destination"`

	// Amount in native units (required)
	Amount uint64 `json:"Amount"`
}

// NewPayment creates a new Payment transaction
func NewPayment(account, destination string, amount uint64) *Payment {
	return &Payment{
		BaseTx:      *tx.NewBaseTx(tx.TypePayment, account),
		Destination: destination,
		Amount:      amount,
	}
}

func (p *Payment) TxType() tx.Type {
	return tx.TypePayment
}

// Validate validates the Payment transaction
func (p *Payment) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}
	if p.Destination == "" {
		return errors.New("temDST_NEEDED: Destination is required")
	}
	if _, err := sle.ParseAccountID(p.Destination); err != nil {
		return errors.New("temMALFORMED: invalid Destination")
	}
	if p.Destination == p.Account {
		return errors.New("temDST_IS_SRC: cannot pay self")
	}
	if p.Amount == 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

func (p *Payment) destination() sle.AccountID {
	id, _ := sle.ParseAccountID(p.Destination)
	return id
}

func (p *Payment) Accesses() []tx.KeyAccess {
	return []tx.KeyAccess{tx.Write(keylet.Account(p.destination()))}
}

func (p *Payment) Apply(ctx *tx.ApplyContext) tx.Result {
	if r := ctx.DebitNative(p.Amount); r != tx.TesSUCCESS {
		return r
	}

	dest := p.destination()
	existing, err := sle.ReadAccountRoot(ctx.View, dest)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if existing != nil {
		return ctx.CreditNative(dest, p.Amount)
	}

	data, err := sle.SerializeAccountRoot(&sle.AccountRoot{
		Account:  dest,
		Balance:  p.Amount,
		Sequence: 1,
	})
	return ctx.Insert(keylet.Account(dest), data, err)
}
