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
	tx.Register(tx.TypeAttendeeReject, func() tx.Transaction {
		return &AttendeeReject{review: review{BaseTx: *tx.NewBaseTx(tx.TypeAttendeeReject, "")}}
	})
	tx.Register(tx.TypeAttendeeVerify, func() tx.Transaction {
		return &AttendeeVerify{review: review{BaseTx: *tx.NewBaseTx(tx.TypeAttendeeVerify, "")}}
	})
}

// review holds the fields shared by the two authority decisions.
type review struct {
	tx.BaseTx

	// Event is the hex key of the event (required)
	Event string `json:"Event"`

	// Attendee is the account that joined (required)
	Attendee string `json:"Attendee"`
}

func (r *review) Validate() error {
	if err := r.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(r.Event); err != nil {
		return errors.New("temMALFORMED: invalid Event")
	}
	if _, err := sle.ParseAccountID(r.Attendee); err != nil {
		return errors.New("temMALFORMED: invalid Attendee")
	}
	return nil
}

func (r *review) eventKey() sle.Hash256 {
	h, _ := sle.ParseHash256(r.Event)
	return h
}

func (r *review) owner() sle.AccountID {
	id, _ := sle.ParseAccountID(r.Attendee)
	return id
}

func (r *review) Accesses() []tx.KeyAccess {
	ev := r.eventKey()
	return []tx.KeyAccess{
		tx.Read(keylet.FromKey(entry.TypeEvent, ev)),
		tx.Write(keylet.Attendee(ev, r.owner())),
		tx.Write(keylet.Collection(ev)),
	}
}

// load checks the signer is an event authority and returns the attendee
// record under review.
func (r *review) load(ctx *tx.ApplyContext) (*sle.Attendee, tx.Result) {
	ev := r.eventKey()
	event, err := sle.ReadEvent(ctx.View, keylet.FromKey(entry.TypeEvent, ev))
	if err != nil {
		return nil, ctx.ViewResult(err)
	}
	if event == nil {
		return nil, tx.TecNO_ENTRY
	}
	if !event.IsAuthority(ctx.AccountID) {
		return nil, tx.TefNOT_AUTHORITY
	}
	att, err := sle.ReadAttendee(ctx.View, ev, r.owner())
	if err != nil {
		return nil, ctx.ViewResult(err)
	}
	if att == nil {
		return nil, tx.TecNO_ENTRY
	}
	return att, tx.TesSUCCESS
}

func (r *review) transition(ctx *tx.ApplyContext, att *sle.Attendee, next sle.AttendeeStatus) tx.Result {
	if !att.Status.CanTransition(next) {
		return tx.TecINVALID_STATUS_TRANSITION
	}
	att.Status = next
	data, err := sle.SerializeAttendee(att)
	return ctx.Update(keylet.Attendee(att.Event, att.Owner), data, err)
}

// AttendeeReject denies a pending attendee. No funds move; the commitment
// fee becomes claimable by the community authority.
type AttendeeReject struct {
	review
}

func NewAttendeeReject(account, event, attendee string) *AttendeeReject {
	return &AttendeeReject{review: review{
		BaseTx:   *tx.NewBaseTx(tx.TypeAttendeeReject, account),
		Event:    event,
		Attendee: attendee,
	}}
}

func (a *AttendeeReject) TxType() tx.Type {
	return tx.TypeAttendeeReject
}

func (a *AttendeeReject) Apply(ctx *tx.ApplyContext) tx.Result {
	att, r := a.load(ctx)
	if r != tx.TesSUCCESS {
		return r
	}
	if r := a.transition(ctx, att, sle.StatusRejected); r != tx.TesSUCCESS {
		return r
	}
	cred, r := credential.Load(ctx, att.Event, att.Sequence)
	if r != tx.TesSUCCESS {
		return r
	}
	return credential.Freeze(ctx, att.Event, cred)
}

// AttendeeVerify admits a pending attendee by scanning their credential.
type AttendeeVerify struct {
	review
}

func NewAttendeeVerify(account, event, attendee string) *AttendeeVerify {
	return &AttendeeVerify{review: review{
		BaseTx:   *tx.NewBaseTx(tx.TypeAttendeeVerify, account),
		Event:    event,
		Attendee: attendee,
	}}
}

func (a *AttendeeVerify) TxType() tx.Type {
	return tx.TypeAttendeeVerify
}

func (a *AttendeeVerify) Apply(ctx *tx.ApplyContext) tx.Result {
	att, r := a.load(ctx)
	if r != tx.TesSUCCESS {
		return r
	}
	cred, r := credential.Load(ctx, att.Event, att.Sequence)
	if r != tx.TesSUCCESS {
		return r
	}
	// A scanned credential is reported before the status is looked at.
	if cred.Scanned {
		return tx.TecALREADY_SCANNED
	}
	if r := a.transition(ctx, att, sle.StatusVerified); r != tx.TesSUCCESS {
		return r
	}
	return credential.Scan(ctx, att.Event, cred)
}
