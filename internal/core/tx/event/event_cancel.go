package event

import (
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeEventCancel, func() tx.Transaction {
		return &EventCancel{BaseTx: *tx.NewBaseTx(tx.TypeEventCancel, "")}
	})
}

// EventCancel closes an event to further joins. Existing attendees keep
// their records and can still be verified, rejected and settled.
type EventCancel struct {
	tx.BaseTx

	// Event is the hex key of the event (required)
	Event string `json:"Event"`
}

func NewEventCancel(account, event string) *EventCancel {
	return &EventCancel{
		BaseTx: *tx.NewBaseTx(tx.TypeEventCancel, account),
		Event:  event,
	}
}

func (c *EventCancel) TxType() tx.Type {
	return tx.TypeEventCancel
}

func (c *EventCancel) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(c.Event); err != nil {
		return errors.New("temMALFORMED: invalid Event")
	}
	return nil
}

func (c *EventCancel) eventKeylet() keylet.Keylet {
	h, _ := sle.ParseHash256(c.Event)
	return keylet.FromKey(entry.TypeEvent, h)
}

// Accesses covers the event only; the community is immutable and read
// without a lock.
func (c *EventCancel) Accesses() []tx.KeyAccess {
	return []tx.KeyAccess{tx.Write(c.eventKeylet())}
}

func (c *EventCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	k := c.eventKeylet()
	event, err := sle.ReadEvent(ctx.View, k)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if event == nil {
		return tx.TecNO_ENTRY
	}

	community, err := sle.ReadCommunity(ctx.View, keylet.FromKey(entry.TypeCommunity, event.Community))
	if err != nil {
		return ctx.ViewResult(err)
	}
	if community == nil {
		return tx.TecINTERNAL
	}
	if community.Authority != ctx.AccountID {
		return tx.TefNOT_AUTHORITY
	}
	if event.Cancelled {
		return tx.TecEVENT_CANCELLED
	}

	event.Cancelled = true
	data, err := sle.SerializeEvent(event)
	return ctx.Update(k, data, err)
}
