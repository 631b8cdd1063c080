// Package ticketing_test exercises the ticketing transactions end to end
// through the engine: admission, review, settlement and their failure modes.
package ticketing_test

import (
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/tx/event"
	jtx "github.com/LeJamon/goTicketd/internal/testing"
	"github.com/LeJamon/goTicketd/internal/testing/builders"
)

const (
	fee    = uint64(500)
	reward = uint64(10)
	supply = uint64(1_000)
)

// fixture is a funded organizer with a community, a reward mint and a door
// authority, plus two attendees.
type fixture struct {
	env       *jtx.TestEnv
	org       *jtx.Account
	door      *jtx.Account
	alice     *jtx.Account
	bob       *jtx.Account
	community string
	mint      string
}

func newFixture(t *testing.T, opts ...jtx.Option) *fixture {
	t.Helper()
	env := jtx.NewTestEnv(t, opts...)
	f := &fixture{
		env:   env,
		org:   jtx.NewAccount("organizer"),
		door:  jtx.NewAccount("door"),
		alice: jtx.NewAccount("alice"),
		bob:   jtx.NewAccount("bob"),
	}
	env.Fund(f.org, f.door, f.alice, f.bob)
	f.community = env.CreateCommunity(f.org, "gophers")
	f.mint = env.CreateMint(f.org, 1, 2)
	env.IssueTokens(f.org, f.mint, f.org, supply)
	return f
}

// event starts a builder for an event reviewed by door, charging fee and
// paying reward.
func (f *fixture) event(nonce uint32, capacity uint32) *builders.EventBuilder {
	return builders.Event(f.org, f.community, nonce, f.env.Now()).
		Capacity(capacity).
		Fee(fee).
		Reward(reward, f.mint).
		Authorities(f.door)
}

func (f *fixture) create(ec *event.EventCreate) string {
	return f.env.CreateEvent(ec)
}

func (f *fixture) join(t *testing.T, acc *jtx.Account, ev string) {
	t.Helper()
	jtx.RequireTxSuccess(t, f.env.Submit(builders.Join(acc, ev)))
}
