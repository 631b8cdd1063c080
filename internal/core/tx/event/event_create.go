// Package event implements EventCreate and EventCancel.
package event

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

// Field limits in bytes.
const (
	MaxNameLength        = 64
	MaxURILength         = 200
	MaxOrganizerLength   = 128
	MaxLocationLength    = 128
	MaxLinkLength        = 128
	MaxDescriptionLength = 512
)

func init() {
	tx.Register(tx.TypeEventCreate, func() tx.Transaction {
		return &EventCreate{BaseTx: *tx.NewBaseTx(tx.TypeEventCreate, "")}
	})
}

// EventCreate opens an event under a community, provisions its escrow and
// credential collection, and funds the reward pool from the signer's token
// line when RewardAmount is set.
type EventCreate struct {
	tx.BaseTx

	// Community is the hex key of the hosting community (required)
	Community string `json:"Community"`

	// Nonce distinguishes events of one community
	Nonce uint32 `json:"Nonce"`

	Name         string           `json:"Name"`
	MetadataURI  string           `json:"MetadataURI,omitempty"`
	LocationKind sle.LocationKind `json:"LocationKind"`
	Organizer    string           `json:"Organizer,omitempty"`
	Location     string           `json:"Location,omitempty"`
	VirtualLink  string           `json:"VirtualLink,omitempty"`
	Description  string           `json:"Description,omitempty"`

	// CommitmentFee is paid by each attendee on join, in native units
	CommitmentFee uint64 `json:"CommitmentFee"`

	// Times are unix seconds. Zero registration bounds default to the
	// ledger time and EventStartsAt.
	EventStartsAt        int64 `json:"EventStartsAt"`
	EventEndsAt          int64 `json:"EventEndsAt"`
	RegistrationStartsAt int64 `json:"RegistrationStartsAt,omitempty"`
	RegistrationEndsAt   int64 `json:"RegistrationEndsAt,omitempty"`

	Capacity uint32 `json:"Capacity"`

	// RewardAmount is paid per verified attendee in units of RewardMint
	RewardAmount uint64 `json:"RewardAmount,omitempty"`
	RewardMint   string `json:"RewardMint,omitempty"`

	// AuthorityMustSign requires joins to be co-signed by an authority
	AuthorityMustSign bool     `json:"AuthorityMustSign,omitempty"`
	Authorities       []string `json:"Authorities,omitempty"`
}

// NewEventCreate creates a new EventCreate transaction
func NewEventCreate(account, community string, nonce uint32) *EventCreate {
	return &EventCreate{
		BaseTx:    *tx.NewBaseTx(tx.TypeEventCreate, account),
		Community: community,
		Nonce:     nonce,
	}
}

func (e *EventCreate) TxType() tx.Type {
	return tx.TypeEventCreate
}

// Validate validates the EventCreate transaction
func (e *EventCreate) Validate() error {
	if err := e.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := sle.ParseHash256(e.Community); err != nil {
		return errors.New("temMALFORMED: invalid Community")
	}
	if e.Name == "" {
		return errors.New("temMALFORMED: Name is required")
	}
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"Name", e.Name, MaxNameLength},
		{"MetadataURI", e.MetadataURI, MaxURILength},
		{"Organizer", e.Organizer, MaxOrganizerLength},
		{"Location", e.Location, MaxLocationLength},
		{"VirtualLink", e.VirtualLink, MaxLinkLength},
		{"Description", e.Description, MaxDescriptionLength},
	} {
		if len(f.value) > f.max {
			return fmt.Errorf("temMALFORMED: %s longer than %d bytes", f.name, f.max)
		}
	}
	if e.LocationKind != sle.LocationInPerson && e.LocationKind != sle.LocationVirtual {
		return errors.New("temMALFORMED: unknown LocationKind")
	}

	if e.Capacity == 0 {
		return errors.New("temINVALID_CAPACITY: Capacity must be positive")
	}

	if len(e.Authorities) > sle.MaxAuthorities {
		return fmt.Errorf("temTOO_MANY_AUTHORITIES: at most %d authorities", sle.MaxAuthorities)
	}
	if _, err := e.authorities(); err != nil {
		return err
	}
	if e.AuthorityMustSign && len(e.Authorities) == 0 {
		return errors.New("temNO_AUTHORITIES: AuthorityMustSign requires authorities")
	}

	if e.RewardAmount > 0 {
		if e.RewardMint == "" {
			return errors.New("temMISSING_ACCOUNT: RewardMint is required with a reward")
		}
		if _, err := sle.ParseHash256(e.RewardMint); err != nil {
			return errors.New("temMALFORMED: invalid RewardMint")
		}
		if _, ok := e.rewardPool(); !ok {
			return errors.New("temBAD_AMOUNT: Capacity * RewardAmount overflows")
		}
	}
	return nil
}

func (e *EventCreate) authorities() ([]sle.AccountID, error) {
	out := make([]sle.AccountID, 0, len(e.Authorities))
	seen := make(map[sle.AccountID]bool, len(e.Authorities))
	for _, s := range e.Authorities {
		id, err := sle.ParseAccountID(s)
		if err != nil {
			return nil, fmt.Errorf("temMALFORMED: invalid authority %q", s)
		}
		if seen[id] {
			return nil, fmt.Errorf("temMALFORMED: duplicate authority %s", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// rewardPool is Capacity * RewardAmount.
func (e *EventCreate) rewardPool() (uint64, bool) {
	hi, lo := bits.Mul64(uint64(e.Capacity), e.RewardAmount)
	return lo, hi == 0
}

func (e *EventCreate) communityKey() sle.Hash256 {
	h, _ := sle.ParseHash256(e.Community)
	return h
}

func (e *EventCreate) rewardMint() sle.Hash256 {
	h, _ := sle.ParseHash256(e.RewardMint)
	return h
}

// Keylet is the address of the event this transaction creates.
func (e *EventCreate) Keylet() keylet.Keylet {
	return keylet.Event(e.communityKey(), e.Nonce)
}

func (e *EventCreate) Accesses() []tx.KeyAccess {
	ev := e.Keylet()
	accesses := []tx.KeyAccess{
		tx.Read(keylet.FromKey(entry.TypeCommunity, e.communityKey())),
		tx.Write(ev),
		tx.Write(keylet.EventEscrow(ev.Key)),
		tx.Write(keylet.Collection(ev.Key)),
	}
	if e.RewardAmount > 0 {
		mint := e.rewardMint()
		accesses = append(accesses,
			tx.Read(keylet.FromKey(entry.TypeMint, mint)),
			tx.Write(keylet.TokenLine(e.AccountID(), mint)),
		)
	}
	return accesses
}

func (e *EventCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	community, err := sle.ReadCommunity(ctx.View, keylet.FromKey(entry.TypeCommunity, e.communityKey()))
	if err != nil {
		return ctx.ViewResult(err)
	}
	if community == nil {
		return tx.TecNO_ENTRY
	}
	if !community.OpenEvents && community.Authority != ctx.AccountID {
		return tx.TefNOT_AUTHORITY
	}

	regStart, regEnd := e.RegistrationStartsAt, e.RegistrationEndsAt
	if regStart == 0 {
		regStart = ctx.Now
	}
	if regEnd == 0 {
		regEnd = e.EventStartsAt
	}
	if !(regStart < regEnd && regEnd <= e.EventEndsAt && e.EventStartsAt < e.EventEndsAt) {
		return tx.TecINVALID_WINDOW
	}
	if e.EventStartsAt <= ctx.Now {
		return tx.TecINVALID_EVENT_START
	}

	authorities, _ := e.authorities()
	ev := e.Keylet()
	event := &sle.Event{
		Community:            e.communityKey(),
		Nonce:                e.Nonce,
		Name:                 e.Name,
		MetadataURI:          e.MetadataURI,
		LocationKind:         e.LocationKind,
		Organizer:            e.Organizer,
		CommitmentFee:        e.CommitmentFee,
		EventStartsAt:        e.EventStartsAt,
		EventEndsAt:          e.EventEndsAt,
		RegistrationStartsAt: regStart,
		RegistrationEndsAt:   regEnd,
		Capacity:             e.Capacity,
		Location:             e.Location,
		VirtualLink:          e.VirtualLink,
		Description:          e.Description,
		RewardAmount:         e.RewardAmount,
		AuthorityMustSign:    e.AuthorityMustSign,
		Authorities:          authorities,
	}
	escrow := &sle.EventEscrow{Event: ev.Key}

	if e.RewardAmount > 0 {
		mint := e.rewardMint()
		exists, err := ctx.View.Exists(keylet.FromKey(entry.TypeMint, mint))
		if err != nil {
			return ctx.ViewResult(err)
		}
		if !exists {
			return tx.TecNO_ENTRY
		}
		pool, _ := e.rewardPool()
		if r := ctx.DebitToken(ctx.AccountID, mint, pool); r != tx.TesSUCCESS {
			return r
		}
		if err := escrow.DepositReward(pool); err != nil {
			return ctx.ViewResult(err)
		}
		event.RewardMint = mint
		escrow.RewardMint = mint
	}

	data, err := sle.SerializeEvent(event)
	if r := ctx.Insert(ev, data, err); r != tx.TesSUCCESS {
		return r
	}
	data, err = sle.SerializeEventEscrow(escrow)
	if r := ctx.Insert(keylet.EventEscrow(ev.Key), data, err); r != tx.TesSUCCESS {
		return r
	}
	data, err = sle.SerializeCollection(&sle.Collection{Event: ev.Key, Authority: community.Authority})
	if r := ctx.Insert(keylet.Collection(ev.Key), data, err); r != tx.TesSUCCESS {
		return r
	}

	ctx.Account.OwnerCount++
	return tx.TesSUCCESS
}
