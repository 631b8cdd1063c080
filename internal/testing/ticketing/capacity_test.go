package ticketing_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	jtx "github.com/LeJamon/goTicketd/internal/testing"
	"github.com/LeJamon/goTicketd/internal/testing/builders"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	const (
		capacity = 5
		joiners  = 12
	)
	f := newFixture(t)
	ev := f.create(f.event(1, capacity).Build())

	accounts := make([]*jtx.Account, joiners)
	joins := make([]tx.Transaction, joiners)
	for i := range accounts {
		accounts[i] = jtx.NewAccount(fmt.Sprintf("joiner%02d", i))
		f.env.Fund(accounts[i])
		joins[i] = f.env.Prepare(builders.Join(accounts[i], ev))
	}

	results := make([]jtx.TxResult, joiners)
	var g errgroup.Group
	for i := range joins {
		g.Go(func() error {
			results[i] = f.env.Apply(joins[i])
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var admitted []uint32
	for i, r := range results {
		if r.Success {
			att := f.env.Attendee(ev, accounts[i])
			require.NotNil(t, att)
			admitted = append(admitted, att.Sequence)
			continue
		}
		require.Equal(t, tx.TecEVENT_FULL, r.Result, "joiner %d: %s", i, r.Code)
		require.Nil(t, f.env.Attendee(ev, accounts[i]))
		jtx.RequireBalance(t, f.env, accounts[i], jtx.DefaultFund)
	}

	sort.Slice(admitted, func(i, j int) bool { return admitted[i] < admitted[j] })
	require.Equal(t, []uint32{1, 2, 3, 4, 5}, admitted)

	require.Equal(t, uint32(capacity), f.env.Event(ev).TicketsIssued)
	require.Equal(t, uint32(capacity), f.env.Collection(ev).Minted)
	require.Equal(t, capacity*fee, f.env.Escrow(ev).FeeBalance)

	owners := map[string]bool{}
	for seq := uint32(1); seq <= capacity; seq++ {
		cred := f.env.Credential(ev, seq)
		require.NotNil(t, cred)
		owners[cred.Owner.String()] = true
	}
	require.Len(t, owners, capacity)
	require.Nil(t, f.env.Credential(ev, capacity+1))
}

func TestConcurrentEventsDoNotContend(t *testing.T) {
	f := newFixture(t)
	first := f.create(f.event(1, 1).Build())
	second := f.create(f.event(2, 1).Build())

	a := f.env.Prepare(builders.Join(f.alice, first))
	b := f.env.Prepare(builders.Join(f.bob, second))

	var g errgroup.Group
	var ra, rb jtx.TxResult
	g.Go(func() error { ra = f.env.Apply(a); return nil })
	g.Go(func() error { rb = f.env.Apply(b); return nil })
	require.NoError(t, g.Wait())

	jtx.RequireTxSuccess(t, ra)
	jtx.RequireTxSuccess(t, rb)
	require.Equal(t, uint32(1), f.env.Attendee(first, f.alice).Sequence)
	require.Equal(t, uint32(1), f.env.Attendee(second, f.bob).Sequence)
}

func TestConcurrentVerifyScansOnce(t *testing.T) {
	f := newFixture(t)
	second := jtx.NewAccount("gate")
	f.env.Fund(second)
	e := f.create(f.event(1, 2).Authorities(f.door, second).Build())
	f.join(t, f.alice, e)

	v1 := f.env.Prepare(builders.Verify(f.door, e, f.alice))
	v2 := f.env.Prepare(builders.Verify(second, e, f.alice))

	var g errgroup.Group
	results := make([]jtx.TxResult, 2)
	g.Go(func() error { results[0] = f.env.Apply(v1); return nil })
	g.Go(func() error { results[1] = f.env.Apply(v2); return nil })
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
			continue
		}
		require.Equal(t, tx.TecALREADY_SCANNED, r.Result)
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, uint32(1), f.env.Collection(e).Scanned)
}

func TestEscrowNeverOverpays(t *testing.T) {
	const capacity = 4
	f := newFixture(t)
	e := f.create(f.event(1, capacity).Build())

	attendees := make([]*jtx.Account, capacity)
	for i := range attendees {
		attendees[i] = jtx.NewAccount(fmt.Sprintf("guest%d", i))
		f.env.Fund(attendees[i])
		f.join(t, attendees[i], e)
	}

	// Half verified, half rejected.
	for i, acc := range attendees {
		if i%2 == 0 {
			jtx.RequireTxSuccess(t, f.env.Submit(builders.Verify(f.door, e, acc)))
		} else {
			jtx.RequireTxSuccess(t, f.env.Submit(builders.Reject(f.door, e, acc)))
		}
	}

	// Verified attendees settle concurrently, each on its own account.
	var g errgroup.Group
	results := make([]jtx.TxResult, capacity)
	for i, acc := range attendees {
		if i%2 != 0 {
			continue
		}
		claim := f.env.Prepare(builders.Claim(acc, e, acc).Mint(f.mint).Build())
		g.Go(func() error {
			results[i] = f.env.Apply(claim)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for i := 0; i < capacity; i += 2 {
		jtx.RequireTxSuccess(t, results[i])
	}

	for i, acc := range attendees {
		if i%2 != 0 {
			jtx.RequireTxSuccess(t, f.env.Submit(builders.Claim(f.org, e, acc).Build()))
		}
	}

	// Retries pay nothing.
	jtx.RequireTxFail(t, f.env.Submit(builders.Claim(attendees[0], e, attendees[0]).Mint(f.mint).Build()), tx.TecALREADY_CLAIMED)
	jtx.RequireTxFail(t, f.env.Submit(builders.Claim(f.org, e, attendees[1]).Build()), tx.TecALREADY_CLAIMED)

	esc := f.env.Escrow(e)
	require.True(t, esc.Solvent())
	require.Equal(t, capacity*fee, esc.FeesCollected)
	require.Equal(t, capacity*fee, esc.FeesPaidOut)
	require.Zero(t, esc.FeeBalance)
	require.Equal(t, capacity*reward, esc.RewardsDeposited)
	require.Equal(t, 2*reward, esc.RewardsPaidOut)
	require.Equal(t, esc.RewardsDeposited-esc.RewardsPaidOut, esc.RewardBalance)

	for i, acc := range attendees {
		jtx.RequireStatus(t, f.env, e, acc, sle.StatusClaimed)
		if i%2 == 0 {
			jtx.RequireTokenBalance(t, f.env, acc, f.mint, reward)
		}
	}
	jtx.RequireTokenBalance(t, f.env, f.org, f.mint, supply-capacity*reward)
}
