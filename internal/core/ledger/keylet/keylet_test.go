package keylet

import (
	"strings"
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyletsAreDeterministic(t *testing.T) {
	var seed [32]byte
	copy(seed[:], "community-seed")

	assert.Equal(t, Community(seed), Community(seed))
	assert.Equal(t, Event(Community(seed).Key, 7), Event(Community(seed).Key, 7))
	assert.NotEqual(t, Event(Community(seed).Key, 7).Key, Event(Community(seed).Key, 8).Key)
}

func TestKeyletSpacesDoNotCollide(t *testing.T) {
	var id [20]byte
	copy(id[:], "same-bytes")
	var seed [32]byte
	copy(seed[:], "same-bytes")

	keys := map[[32]byte]entry.Type{}
	for _, k := range []Keylet{
		Account(id),
		Community(seed),
		EventEscrow(seed),
		Collection(seed),
		Mint(id, 0),
		TokenLine(id, seed),
		Attendee(seed, id),
		Credential(seed, 0),
		Event(seed, 0),
	} {
		prev, dup := keys[k.Key]
		require.False(t, dup, "%s collides with %s", k.Type, prev)
		keys[k.Key] = k.Type
	}
}

func TestKeyletTypes(t *testing.T) {
	var id [20]byte
	var key [32]byte
	assert.Equal(t, entry.TypeAttendee, Attendee(key, id).Type)
	assert.Equal(t, entry.TypeCredential, Credential(key, 1).Type)
	assert.Equal(t, entry.TypeCollection, Collection(key).Type)
	assert.Equal(t, entry.TypeEventEscrow, EventEscrow(key).Type)
}

func TestEncodeDecodeKey(t *testing.T) {
	var seed [32]byte
	copy(seed[:], "round trip")
	k := Community(seed)

	decoded, err := DecodeKey(strings.ToLower(k.String()))
	require.NoError(t, err)
	assert.Equal(t, k.Key, decoded)

	_, err = DecodeKey("abcd")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFromKeyMatchesDerived(t *testing.T) {
	var community [32]byte
	community[0] = 7
	derived := Event(community, 3)
	require.Equal(t, derived, FromKey(entry.TypeEvent, derived.Key))
}
