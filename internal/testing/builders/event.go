package builders

import (
	"time"

	"github.com/LeJamon/goTicketd/internal/core/tx/event"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// EventBuilder provides a fluent interface for building EventCreate transactions.
type EventBuilder struct {
	tx *event.EventCreate
}

// Event starts an EventCreate with a schedule relative to now: registration
// opens at ledger time and closes in one hour, and the event runs from two
// to four hours out. Capacity defaults to 10.
func Event(creator Account, community string, nonce uint32, now time.Time) *EventBuilder {
	ec := event.NewEventCreate(creator.Human(), community, nonce)
	ec.Name = "meetup"
	ec.Capacity = 10
	ec.RegistrationEndsAt = now.Add(time.Hour).Unix()
	ec.EventStartsAt = now.Add(2 * time.Hour).Unix()
	ec.EventEndsAt = now.Add(4 * time.Hour).Unix()
	return &EventBuilder{tx: ec}
}

func (b *EventBuilder) Name(name string) *EventBuilder {
	b.tx.Name = name
	return b
}

func (b *EventBuilder) Capacity(n uint32) *EventBuilder {
	b.tx.Capacity = n
	return b
}

// Fee sets the commitment fee each attendee pays on join.
func (b *EventBuilder) Fee(amount uint64) *EventBuilder {
	b.tx.CommitmentFee = amount
	return b
}

// Reward pays amount of mint to every verified attendee.
func (b *EventBuilder) Reward(amount uint64, mint string) *EventBuilder {
	b.tx.RewardAmount = amount
	b.tx.RewardMint = mint
	return b
}

// Registration sets the registration window explicitly.
func (b *EventBuilder) Registration(start, end time.Time) *EventBuilder {
	b.tx.RegistrationStartsAt = start.Unix()
	b.tx.RegistrationEndsAt = end.Unix()
	return b
}

// Schedule sets when the event itself runs.
func (b *EventBuilder) Schedule(start, end time.Time) *EventBuilder {
	b.tx.EventStartsAt = start.Unix()
	b.tx.EventEndsAt = end.Unix()
	return b
}

func (b *EventBuilder) Authorities(accounts ...Account) *EventBuilder {
	b.tx.Authorities = addresses(accounts)
	return b
}

// MustSign requires joins to be co-signed by an authority.
func (b *EventBuilder) MustSign() *EventBuilder {
	b.tx.AuthorityMustSign = true
	return b
}

func (b *EventBuilder) Virtual(link string) *EventBuilder {
	b.tx.LocationKind = sle.LocationVirtual
	b.tx.VirtualLink = link
	return b
}

func (b *EventBuilder) Build() *event.EventCreate {
	return b.tx
}
