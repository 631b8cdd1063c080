package keylet

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	crypto "github.com/LeJamon/goTicketd/internal/crypto/common"
)

// Space identifiers for keylet generation. Every entry kind hashes under its
// own space so that equal seeds never collide across kinds.
const (
	spaceAccount    uint16 = 'a' // Account root
	spaceMint       uint16 = 'M' // Token mint
	spaceTokenLine  uint16 = 't' // Token line
	spaceCommunity  uint16 = 'c' // Community
	spaceEvent      uint16 = 'e' // Event
	spaceEscrow     uint16 = 'x' // Event escrow
	spaceCollection uint16 = 'l' // Credential collection
	spaceCredential uint16 = 'D' // Credential
	spaceAttendee   uint16 = 'A' // Attendee record
)

// ErrInvalidKey is returned when a hex encoded key cannot be decoded.
var ErrInvalidKey = errors.New("invalid ledger key")

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// String renders the key as upper-case hex.
func (k Keylet) String() string {
	return EncodeKey(k.Key)
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func uint32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// Account returns the keylet for an account root entry.
func Account(accountID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// Mint returns the keylet for a token mint created by issuer under nonce.
func Mint(issuer [20]byte, nonce uint32) Keylet {
	return Keylet{
		Type: entry.TypeMint,
		Key:  indexHash(spaceMint, issuer[:], uint32Bytes(nonce)),
	}
}

// TokenLine returns the keylet for holder's balance of mint.
func TokenLine(holder [20]byte, mint [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeTokenLine,
		Key:  indexHash(spaceTokenLine, holder[:], mint[:]),
	}
}

// Community returns the keylet for the community created under seed.
func Community(seed [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeCommunity,
		Key:  indexHash(spaceCommunity, seed[:]),
	}
}

// Event returns the keylet for the event a community created under nonce.
func Event(community [32]byte, nonce uint32) Keylet {
	return Keylet{
		Type: entry.TypeEvent,
		Key:  indexHash(spaceEvent, community[:], uint32Bytes(nonce)),
	}
}

// EventEscrow returns the keylet for the value held on behalf of an event.
func EventEscrow(event [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeEventEscrow,
		Key:  indexHash(spaceEscrow, event[:]),
	}
}

// Collection returns the keylet for an event's credential collection.
func Collection(event [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeCollection,
		Key:  indexHash(spaceCollection, event[:]),
	}
}

// Credential returns the keylet for the credential numbered sequence in a collection.
func Credential(collection [32]byte, sequence uint32) Keylet {
	return Keylet{
		Type: entry.TypeCredential,
		Key:  indexHash(spaceCredential, collection[:], uint32Bytes(sequence)),
	}
}

// Attendee returns the keylet for owner's admission record for an event.
func Attendee(event [32]byte, owner [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAttendee,
		Key:  indexHash(spaceAttendee, event[:], owner[:]),
	}
}

// FromKey addresses an entry whose key is already known, such as an event
// or mint referenced by hash in a transaction.
func FromKey(t entry.Type, key [32]byte) Keylet {
	return Keylet{Type: t, Key: key}
}

// EncodeKey renders a 256-bit key as upper-case hex.
func EncodeKey(key [32]byte) string {
	return strings.ToUpper(hex.EncodeToString(key[:]))
}

// DecodeKey parses a 64 character hex key.
func DecodeKey(s string) ([32]byte, error) {
	var key [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(key) {
		return key, ErrInvalidKey
	}
	copy(key[:], raw)
	return key, nil
}
