package builders

import (
	"github.com/LeJamon/goTicketd/internal/core/tx/attendee"
	"github.com/LeJamon/goTicketd/internal/core/tx/escrow"
	"github.com/LeJamon/goTicketd/internal/core/tx/event"
)

// Join builds an EventJoin for account.
func Join(account Account, ev string) *attendee.EventJoin {
	return attendee.NewEventJoin(account.Human(), ev)
}

// Reject builds an AttendeeReject signed by authority.
func Reject(authority Account, ev string, owner Account) *attendee.AttendeeReject {
	return attendee.NewAttendeeReject(authority.Human(), ev, owner.Human())
}

// Verify builds an AttendeeVerify signed by authority.
func Verify(authority Account, ev string, owner Account) *attendee.AttendeeVerify {
	return attendee.NewAttendeeVerify(authority.Human(), ev, owner.Human())
}

// ClaimBuilder provides a fluent interface for building RewardsClaim transactions.
type ClaimBuilder struct {
	tx *escrow.RewardsClaim
}

// Claim settles owner's record on behalf of claimer.
func Claim(claimer Account, ev string, owner Account) *ClaimBuilder {
	return &ClaimBuilder{tx: escrow.NewRewardsClaim(claimer.Human(), ev, owner.Human())}
}

func (b *ClaimBuilder) Mint(mint string) *ClaimBuilder {
	b.tx.RewardMint = mint
	return b
}

func (b *ClaimBuilder) Build() *escrow.RewardsClaim {
	return b.tx
}

// Cancel builds an EventCancel.
func Cancel(authority Account, ev string) *event.EventCancel {
	return event.NewEventCancel(authority.Human(), ev)
}
