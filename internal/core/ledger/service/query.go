package service

import (
	"context"
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx/credential"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
)

func parseKey(name, s string) (sle.Hash256, error) {
	h, err := sle.ParseHash256(s)
	if err != nil {
		return h, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	return h, nil
}

// GetCommunity returns the community at id.
func (s *Service) GetCommunity(ctx context.Context, id string) (*sle.Community, error) {
	key, err := parseKey("community", id)
	if err != nil {
		return nil, err
	}
	return readEntry(ctx, s, keylet.FromKey(entry.TypeCommunity, key), sle.ParseCommunity)
}

// GetEvent returns the event at id.
func (s *Service) GetEvent(ctx context.Context, id string) (*sle.Event, error) {
	key, err := parseKey("event", id)
	if err != nil {
		return nil, err
	}
	return readEntry(ctx, s, keylet.FromKey(entry.TypeEvent, key), sle.ParseEvent)
}

// GetMint returns the token mint at id.
func (s *Service) GetMint(ctx context.Context, id string) (*sle.Mint, error) {
	key, err := parseKey("mint", id)
	if err != nil {
		return nil, err
	}
	return readEntry(ctx, s, keylet.FromKey(entry.TypeMint, key), sle.ParseMint)
}

// GetAttendee returns owner's admission record for event.
func (s *Service) GetAttendee(ctx context.Context, event, owner string) (*sle.Attendee, error) {
	key, err := parseKey("event", event)
	if err != nil {
		return nil, err
	}
	ownerID, err := sle.ParseAccountID(owner)
	if err != nil {
		return nil, fmt.Errorf("%w: owner: %v", ErrMalformed, err)
	}
	return readEntry(ctx, s, keylet.Attendee(key, ownerID), sle.ParseAttendee)
}

// GetCredential returns the credential with the given sequence in event's
// collection.
func (s *Service) GetCredential(ctx context.Context, event string, sequence uint32) (*sle.Credential, error) {
	key, err := parseKey("event", event)
	if err != nil {
		return nil, err
	}
	return readEntry(ctx, s, credential.Keylet(key, sequence), sle.ParseCredential)
}

// GetCollection returns the credential collection of event.
func (s *Service) GetCollection(ctx context.Context, event string) (*sle.Collection, error) {
	key, err := parseKey("event", event)
	if err != nil {
		return nil, err
	}
	return readEntry(ctx, s, keylet.Collection(key), sle.ParseCollection)
}

// GetEscrow returns the escrow holding event's fees and rewards.
func (s *Service) GetEscrow(ctx context.Context, event string) (*sle.EventEscrow, error) {
	key, err := parseKey("event", event)
	if err != nil {
		return nil, err
	}
	return readEntry(ctx, s, keylet.EventEscrow(key), sle.ParseEventEscrow)
}
