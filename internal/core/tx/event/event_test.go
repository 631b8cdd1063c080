package event

import (
	"math"
	"strings"
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	creator   = sle.AccountID{1}.String()
	community = sle.Hash256{2}.String()
	mint      = sle.Hash256{3}.String()
)

func authority(b byte) string { return sle.AccountID{b}.String() }

func validEvent() *EventCreate {
	e := NewEventCreate(creator, community, 1)
	e.Sequence = 1
	e.Name = "meetup"
	e.Capacity = 10
	e.EventStartsAt = 2000
	e.EventEndsAt = 3000
	e.Authorities = []string{authority(10)}
	return e
}

func TestEventCreateValidation(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(e *EventCreate)
		errorMsg string
	}{
		{name: "valid", modify: func(*EventCreate) {}},
		{name: "virtual", modify: func(e *EventCreate) {
			e.LocationKind = sle.LocationVirtual
			e.VirtualLink = "https://meet.example"
		}},
		{name: "with reward", modify: func(e *EventCreate) {
			e.RewardAmount = 5
			e.RewardMint = mint
		}},
		{name: "bad community", modify: func(e *EventCreate) { e.Community = "abc" }, errorMsg: "invalid Community"},
		{name: "empty name", modify: func(e *EventCreate) { e.Name = "" }, errorMsg: "temMALFORMED"},
		{name: "long name", modify: func(e *EventCreate) { e.Name = strings.Repeat("n", MaxNameLength+1) }, errorMsg: "Name longer"},
		{name: "long uri", modify: func(e *EventCreate) { e.MetadataURI = strings.Repeat("u", MaxURILength+1) }, errorMsg: "MetadataURI longer"},
		{name: "long description", modify: func(e *EventCreate) { e.Description = strings.Repeat("d", MaxDescriptionLength+1) }, errorMsg: "Description longer"},
		{name: "unknown location kind", modify: func(e *EventCreate) { e.LocationKind = 7 }, errorMsg: "LocationKind"},
		{name: "zero capacity", modify: func(e *EventCreate) { e.Capacity = 0 }, errorMsg: "temINVALID_CAPACITY"},
		{name: "too many authorities", modify: func(e *EventCreate) {
			e.Authorities = []string{authority(10), authority(11), authority(12), authority(13), authority(14)}
		}, errorMsg: "temTOO_MANY_AUTHORITIES"},
		{name: "duplicate authority", modify: func(e *EventCreate) {
			e.Authorities = []string{authority(10), authority(10)}
		}, errorMsg: "duplicate authority"},
		{name: "malformed authority", modify: func(e *EventCreate) { e.Authorities = []string{"door"} }, errorMsg: "invalid authority"},
		{name: "must sign without authorities", modify: func(e *EventCreate) {
			e.Authorities = nil
			e.AuthorityMustSign = true
		}, errorMsg: "temNO_AUTHORITIES"},
		{name: "reward without mint", modify: func(e *EventCreate) { e.RewardAmount = 5 }, errorMsg: "temMISSING_ACCOUNT"},
		{name: "reward bad mint", modify: func(e *EventCreate) {
			e.RewardAmount = 5
			e.RewardMint = "mint"
		}, errorMsg: "invalid RewardMint"},
		{name: "reward pool overflow", modify: func(e *EventCreate) {
			e.RewardAmount = math.MaxUint64
			e.RewardMint = mint
		}, errorMsg: "temBAD_AMOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.modify(e)
			err := e.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestEventCreateAccesses(t *testing.T) {
	e := validEvent()
	require.Len(t, e.Accesses(), 4)
	assert.False(t, e.Accesses()[0].Writable)

	e.RewardAmount = 5
	e.RewardMint = mint
	accesses := e.Accesses()
	require.Len(t, accesses, 6)
	assert.Equal(t, keylet.TokenLine(sle.AccountID{1}, sle.Hash256{3}), accesses[5].Keylet)
	assert.True(t, accesses[5].Writable)
}

func TestEventKeyletIsPerCommunityAndNonce(t *testing.T) {
	a := validEvent()
	b := validEvent()
	b.Account = authority(5)
	assert.Equal(t, a.Keylet(), b.Keylet())

	b.Nonce = 2
	assert.NotEqual(t, a.Keylet(), b.Keylet())
}

func TestEventCancelValidation(t *testing.T) {
	c := NewEventCancel(creator, sle.Hash256{4}.String())
	c.Sequence = 1
	assert.NoError(t, c.Validate())

	c.Event = "nope"
	assert.ErrorContains(t, c.Validate(), "temMALFORMED")
}
