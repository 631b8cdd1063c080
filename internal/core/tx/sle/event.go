package sle

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
)

// MaxAuthorities is the largest authority set an event may carry.
const MaxAuthorities = 4

// LocationKind says whether an event happens in person or online.
type LocationKind uint8

const (
	LocationInPerson LocationKind = iota
	LocationVirtual
)

func (k LocationKind) String() string {
	switch k {
	case LocationInPerson:
		return "InPerson"
	case LocationVirtual:
		return "Virtual"
	default:
		return fmt.Sprintf("LocationKind(%d)", uint8(k))
	}
}

func (k LocationKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *LocationKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "inperson", "in_person", "":
		*k = LocationInPerson
	case "virtual":
		*k = LocationVirtual
	default:
		return fmt.Errorf("unknown location kind %q", b)
	}
	return nil
}

// Event holds an event's schedule, capacity and settlement terms.
// TicketsIssued and Cancelled are the only fields that change after creation.
type Event struct {
	Community            Hash256      `codec:"community" json:"Community"`
	Nonce                uint32       `codec:"nonce" json:"Nonce"`
	Name                 string       `codec:"name" json:"Name"`
	MetadataURI          string       `codec:"uri" json:"MetadataURI"`
	LocationKind         LocationKind `codec:"location_kind" json:"LocationKind"`
	Organizer            string       `codec:"organizer" json:"Organizer"`
	CommitmentFee        uint64       `codec:"fee" json:"CommitmentFee"`
	EventStartsAt        int64        `codec:"starts" json:"EventStartsAt"`
	EventEndsAt          int64        `codec:"ends" json:"EventEndsAt"`
	RegistrationStartsAt int64        `codec:"reg_starts" json:"RegistrationStartsAt"`
	RegistrationEndsAt   int64        `codec:"reg_ends" json:"RegistrationEndsAt"`
	Capacity             uint32       `codec:"capacity" json:"Capacity"`
	Location             string       `codec:"location" json:"Location,omitempty"`
	VirtualLink          string       `codec:"link" json:"VirtualLink,omitempty"`
	Description          string       `codec:"description" json:"Description,omitempty"`
	RewardAmount         uint64       `codec:"reward" json:"RewardAmount"`
	RewardMint           Hash256      `codec:"reward_mint" json:"RewardMint"`
	AuthorityMustSign    bool         `codec:"must_sign" json:"AuthorityMustSign"`
	Authorities          []AccountID  `codec:"authorities" json:"Authorities"`
	TicketsIssued        uint32       `codec:"issued" json:"TicketsIssued"`
	Cancelled            bool         `codec:"cancelled" json:"Cancelled"`
}

// IsAuthority reports whether id is in the event's authority set.
func (e *Event) IsAuthority(id AccountID) bool {
	for _, a := range e.Authorities {
		if a == id {
			return true
		}
	}
	return false
}

// RegistrationOpen reports whether now lies in [RegistrationStartsAt, RegistrationEndsAt).
func (e *Event) RegistrationOpen(now int64) bool {
	return now >= e.RegistrationStartsAt && now < e.RegistrationEndsAt
}

func (e *Event) Full() bool {
	return e.TicketsIssued >= e.Capacity
}

// HasReward reports whether verified attendees receive tokens.
func (e *Event) HasReward() bool {
	return e.RewardAmount > 0
}

func ParseEvent(data []byte) (*Event, error) {
	var e Event
	if err := parse(data, entry.TypeEvent, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func SerializeEvent(e *Event) ([]byte, error) {
	return serialize(entry.TypeEvent, e)
}
