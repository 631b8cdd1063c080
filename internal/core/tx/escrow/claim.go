// Package escrow implements RewardsClaim, which settles an attendee's
// commitment fee and reward out of the event escrow.
package escrow

import (
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeRewardsClaim, func() tx.Transaction {
		return &RewardsClaim{BaseTx: *tx.NewBaseTx(tx.TypeRewardsClaim, "")}
	})
}

// RewardsClaim settles one attendee record.
//
// A verified attendee claims for themselves and receives the commitment fee
// back plus the reward. A rejected attendee's fee goes to the community
// authority, who must sign. Either way the record ends Claimed.
type RewardsClaim struct {
	tx.BaseTx

	// Event is the hex key of the event (required)
	Event string `json:"Event"`

	// Attendee is the account whose record is settled (required)
	Attendee string `json:"Attendee"`

	// RewardMint must name the event's reward mint when it has one
	RewardMint string `json:"RewardMint,omitempty"`
}

// NewRewardsClaim creates a new RewardsClaim transaction
func NewRewardsClaim(account, event, attendee string) *RewardsClaim {
	return &RewardsClaim{
		BaseTx:   *tx.NewBaseTx(tx.TypeRewardsClaim, account),
		Event:    event,
		Attendee: attendee,
	}
}

func (c *RewardsClaim) TxType() tx.Type {
	return tx.TypeRewardsClaim
}

func (c *RewardsClaim) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(c.Event); err != nil {
		return errors.New("temMALFORMED: invalid Event")
	}
	if _, err := sle.ParseAccountID(c.Attendee); err != nil {
		return errors.New("temMALFORMED: invalid Attendee")
	}
	if c.RewardMint != "" {
		if _, err := sle.ParseHash256(c.RewardMint); err != nil {
			return errors.New("temMALFORMED: invalid RewardMint")
		}
	}
	return nil
}

func (c *RewardsClaim) eventKey() sle.Hash256 {
	h, _ := sle.ParseHash256(c.Event)
	return h
}

func (c *RewardsClaim) owner() sle.AccountID {
	id, _ := sle.ParseAccountID(c.Attendee)
	return id
}

func (c *RewardsClaim) rewardMint() sle.Hash256 {
	h, _ := sle.ParseHash256(c.RewardMint)
	return h
}

// Accesses covers the records settled and the signer's reward line. The
// community is immutable and read without a lock.
func (c *RewardsClaim) Accesses() []tx.KeyAccess {
	ev := c.eventKey()
	accesses := []tx.KeyAccess{
		tx.Read(keylet.FromKey(entry.TypeEvent, ev)),
		tx.Write(keylet.Attendee(ev, c.owner())),
		tx.Write(keylet.EventEscrow(ev)),
	}
	if c.RewardMint != "" {
		accesses = append(accesses, tx.Write(keylet.TokenLine(c.AccountID(), c.rewardMint())))
	}
	return accesses
}

func (c *RewardsClaim) Apply(ctx *tx.ApplyContext) tx.Result {
	ev := c.eventKey()
	event, err := sle.ReadEvent(ctx.View, keylet.FromKey(entry.TypeEvent, ev))
	if err != nil {
		return ctx.ViewResult(err)
	}
	if event == nil {
		return tx.TecNO_ENTRY
	}
	att, err := sle.ReadAttendee(ctx.View, ev, c.owner())
	if err != nil {
		return ctx.ViewResult(err)
	}
	if att == nil {
		return tx.TecNO_ENTRY
	}
	escrow, err := sle.ReadEventEscrow(ctx.View, ev)
	if err != nil {
		return ctx.ViewResult(err)
	}
	if escrow == nil {
		return tx.TecINTERNAL
	}

	var r tx.Result
	switch att.Status {
	case sle.StatusClaimed:
		return tx.TecALREADY_CLAIMED
	case sle.StatusPending:
		return tx.TecATTENDEE_PENDING
	case sle.StatusVerified:
		r = c.settleVerified(ctx, event, escrow, att)
	case sle.StatusRejected:
		r = c.settleRejected(ctx, event, escrow)
	default:
		return tx.TecINTERNAL
	}
	if r != tx.TesSUCCESS {
		return r
	}

	if !escrow.Solvent() {
		return tx.TecINVARIANT_FAILED
	}
	data, err := sle.SerializeEventEscrow(escrow)
	if r := ctx.Update(keylet.EventEscrow(ev), data, err); r != tx.TesSUCCESS {
		return r
	}

	att.Status = sle.StatusClaimed
	data, err = sle.SerializeAttendee(att)
	return ctx.Update(keylet.Attendee(ev, att.Owner), data, err)
}

// settleVerified refunds the fee and pays the reward to the owner.
func (c *RewardsClaim) settleVerified(ctx *tx.ApplyContext, event *sle.Event, escrow *sle.EventEscrow, att *sle.Attendee) tx.Result {
	if ctx.AccountID != att.Owner {
		return tx.TefINVALID_CLAIMER
	}
	if event.HasReward() {
		if c.RewardMint == "" {
			return tx.TemMISSING_ACCOUNT
		}
		if c.rewardMint() != event.RewardMint {
			return tx.TecMINT_MISMATCH
		}
	}

	if r := payFee(ctx, event, escrow); r != tx.TesSUCCESS {
		return r
	}
	if !event.HasReward() {
		return tx.TesSUCCESS
	}
	if err := escrow.PayReward(event.RewardAmount); err != nil {
		return ctx.ViewResult(err)
	}
	return ctx.CreditToken(ctx.AccountID, event.RewardMint, event.RewardAmount)
}

// settleRejected pays the forfeited fee to the community authority.
func (c *RewardsClaim) settleRejected(ctx *tx.ApplyContext, event *sle.Event, escrow *sle.EventEscrow) tx.Result {
	community, err := sle.ReadCommunity(ctx.View, keylet.FromKey(entry.TypeCommunity, event.Community))
	if err != nil {
		return ctx.ViewResult(err)
	}
	if community == nil {
		return tx.TecINTERNAL
	}
	if ctx.AccountID != community.Authority {
		return tx.TefINVALID_CLAIMER
	}
	return payFee(ctx, event, escrow)
}

func payFee(ctx *tx.ApplyContext, event *sle.Event, escrow *sle.EventEscrow) tx.Result {
	if event.CommitmentFee == 0 {
		return tx.TesSUCCESS
	}
	if err := escrow.PayFee(event.CommitmentFee); err != nil {
		return ctx.ViewResult(err)
	}
	return ctx.CreditNative(ctx.AccountID, event.CommitmentFee)
}
