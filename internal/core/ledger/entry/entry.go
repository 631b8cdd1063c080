package entry

import (
	"fmt"
)

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	// Value ledger
	TypeAccountRoot Type = 0x0061 // Native balances and sequence
	TypeMint        Type = 0x004d // Fungible token definitions
	TypeTokenLine   Type = 0x0074 // Per-holder token balances

	// Ticketing
	TypeCommunity   Type = 0x0063 // Event hosts
	TypeEvent       Type = 0x0065 // Events with windows, capacity and terms
	TypeEventEscrow Type = 0x0078 // Value held on behalf of an event
	TypeCollection  Type = 0x006c // Per-event credential collection
	TypeCredential  Type = 0x0044 // Sequence-numbered tickets
	TypeAttendee    Type = 0x0041 // Per (event, owner) admission record
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeMint:
		return "Mint"
	case TypeTokenLine:
		return "TokenLine"
	case TypeCommunity:
		return "Community"
	case TypeEvent:
		return "Event"
	case TypeEventEscrow:
		return "EventEscrow"
	case TypeCollection:
		return "Collection"
	case TypeCredential:
		return "Credential"
	case TypeAttendee:
		return "Attendee"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// TypeFromName is the inverse of String for known types.
func TypeFromName(name string) (Type, bool) {
	for _, t := range []Type{
		TypeAccountRoot, TypeMint, TypeTokenLine,
		TypeCommunity, TypeEvent, TypeEventEscrow,
		TypeCollection, TypeCredential, TypeAttendee,
	} {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}
