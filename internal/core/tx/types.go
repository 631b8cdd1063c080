package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

const (
	TypeInvalid Type = 0xFFFF

	// Value ledger
	TypePayment    Type = 0
	TypeMintCreate Type = 1
	TypeMintIssue  Type = 2

	// Ticketing
	TypeCommunityCreate Type = 10
	TypeEventCreate     Type = 11
	TypeEventCancel     Type = 12
	TypeEventJoin       Type = 13
	TypeAttendeeReject  Type = 14
	TypeAttendeeVerify  Type = 15
	TypeRewardsClaim    Type = 16
)

var typeNames = map[Type]string{
	TypePayment:         "Payment",
	TypeMintCreate:      "MintCreate",
	TypeMintIssue:       "MintIssue",
	TypeCommunityCreate: "CommunityCreate",
	TypeEventCreate:     "EventCreate",
	TypeEventCancel:     "EventCancel",
	TypeEventJoin:       "EventJoin",
	TypeAttendeeReject:  "AttendeeReject",
	TypeAttendeeVerify:  "AttendeeVerify",
	TypeRewardsClaim:    "RewardsClaim",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the string name of the transaction type
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the Type for a given name
func TypeFromName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}
