// Package attendee implements the attendee state machine: EventJoin,
// AttendeeReject and AttendeeVerify.
package attendee

import (
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/credential"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeEventJoin, func() tx.Transaction {
		return &EventJoin{BaseTx: *tx.NewBaseTx(tx.TypeEventJoin, "")}
	})
}

// EventJoin registers the signer for an event. The event entry is locked
// for writing, so concurrent joins are numbered densely in commit order.
type EventJoin struct {
	tx.BaseTx

	// Event is the hex key of the event (required)
	Event string `json:"Event"`
}

// NewEventJoin creates a new EventJoin transaction
func NewEventJoin(account, event string) *EventJoin {
	return &EventJoin{
		BaseTx: *tx.NewBaseTx(tx.TypeEventJoin, account),
		Event:  event,
	}
}

func (j *EventJoin) TxType() tx.Type {
	return tx.TypeEventJoin
}

func (j *EventJoin) Validate() error {
	if err := j.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(j.Event); err != nil {
		return errors.New("temMALFORMED: invalid Event")
	}
	return nil
}

func (j *EventJoin) eventKey() sle.Hash256 {
	h, _ := sle.ParseHash256(j.Event)
	return h
}

func (j *EventJoin) Accesses() []tx.KeyAccess {
	ev := j.eventKey()
	return []tx.KeyAccess{
		tx.Write(keylet.FromKey(entry.TypeEvent, ev)),
		tx.Write(keylet.Attendee(ev, j.AccountID())),
		tx.Write(keylet.EventEscrow(ev)),
		tx.Write(keylet.Collection(ev)),
	}
}

func (j *EventJoin) Apply(ctx *tx.ApplyContext) tx.Result {
	ev := j.eventKey()
	evKeylet := keylet.FromKey(entry.TypeEvent, ev)
	event, err := sle.ReadEvent(ctx.View, evKeylet)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if event == nil {
		return tx.TecNO_ENTRY
	}

	attKeylet := keylet.Attendee(ev, ctx.AccountID)
	exists, err := ctx.View.Exists(attKeylet)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if exists {
		return tx.TecDUPLICATE
	}

	if event.Cancelled {
		return tx.TecEVENT_CANCELLED
	}
	if !event.RegistrationOpen(ctx.Now) {
		return tx.TecREGISTRATION_CLOSED
	}
	if event.Full() {
		return tx.TecEVENT_FULL
	}
	if event.AuthorityMustSign && !authorized(ctx, event) {
		return tx.TefMISSING_COSIGNATURE
	}

	if event.CommitmentFee > 0 {
		if r := ctx.DebitNative(event.CommitmentFee); r != tx.TesSUCCESS {
			return r
		}
		escrow, err := sle.ReadEventEscrow(ctx.View, ev)
		if err != nil {
			return ctx.ViewResult(err)
		}
		if escrow == nil {
			return tx.TecINTERNAL
		}
		if err := escrow.CollectFee(event.CommitmentFee); err != nil {
			return ctx.ViewResult(err)
		}
		data, err := sle.SerializeEventEscrow(escrow)
		if r := ctx.Update(keylet.EventEscrow(ev), data, err); r != tx.TesSUCCESS {
			return r
		}
	}

	event.TicketsIssued++
	seq := event.TicketsIssued
	data, err := sle.SerializeEvent(event)
	if r := ctx.Update(evKeylet, data, err); r != tx.TesSUCCESS {
		return r
	}

	credKeylet, r := credential.Issue(ctx, ev, seq, ctx.AccountID)
	if r != tx.TesSUCCESS {
		return r
	}

	data, err = sle.SerializeAttendee(&sle.Attendee{
		Event:      ev,
		Owner:      ctx.AccountID,
		Status:     sle.StatusPending,
		Credential: credKeylet.Key,
		Sequence:   seq,
		JoinedAt:   ctx.Now,
	})
	if r := ctx.Insert(attKeylet, data, err); r != tx.TesSUCCESS {
		return r
	}

	ctx.Account.OwnerCount++
	return tx.TesSUCCESS
}

// authorized reports whether the join carries an authority's approval:
// either the signer is an authority or a verified co-signer is.
func authorized(ctx *tx.ApplyContext, event *sle.Event) bool {
	if event.IsAuthority(ctx.AccountID) {
		return true
	}
	return ctx.HasCoSigner() && event.IsAuthority(ctx.CoSigner)
}
