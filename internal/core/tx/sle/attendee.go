package sle

import (
	"fmt"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
)

// AttendeeStatus is the admission state of an attendee.
//
//	Pending -> Rejected -> Claimed
//	Pending -> Verified -> Claimed
type AttendeeStatus uint8

const (
	StatusPending AttendeeStatus = iota
	StatusRejected
	StatusVerified
	StatusClaimed
)

func (s AttendeeStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRejected:
		return "Rejected"
	case StatusVerified:
		return "Verified"
	case StatusClaimed:
		return "Claimed"
	default:
		return fmt.Sprintf("AttendeeStatus(%d)", uint8(s))
	}
}

func (s AttendeeStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *AttendeeStatus) UnmarshalText(b []byte) error {
	for _, c := range []AttendeeStatus{StatusPending, StatusRejected, StatusVerified, StatusClaimed} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown attendee status %q", b)
}

// CanTransition reports whether next is a legal successor of s.
func (s AttendeeStatus) CanTransition(next AttendeeStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusRejected || next == StatusVerified
	case StatusRejected, StatusVerified:
		return next == StatusClaimed
	default:
		return false
	}
}

// Attendee is the admission record for one (event, owner) pair. It is never
// deleted.
type Attendee struct {
	Event      Hash256        `codec:"event" json:"Event"`
	Owner      AccountID      `codec:"owner" json:"Owner"`
	Status     AttendeeStatus `codec:"status" json:"Status"`
	Credential Hash256        `codec:"credential" json:"Credential"`
	Sequence   uint32         `codec:"seq" json:"Sequence"`
	JoinedAt   int64          `codec:"joined" json:"JoinedAt"`
}

func ParseAttendee(data []byte) (*Attendee, error) {
	var a Attendee
	if err := parse(data, entry.TypeAttendee, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func SerializeAttendee(a *Attendee) ([]byte, error) {
	return serialize(entry.TypeAttendee, a)
}
