package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/attendee"
	"github.com/LeJamon/goTicketd/internal/core/tx/community"
	"github.com/LeJamon/goTicketd/internal/core/tx/event"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/storage/database/memory"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb/sqlite"
	jtx "github.com/LeJamon/goTicketd/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *service.Service
	clock  *jtx.ManualClock
	master *jtx.Account
	alice  *jtx.Account
}

func newFixture(t *testing.T, withJournal bool) *fixture {
	t.Helper()
	ctx := context.Background()

	cfg := service.DefaultConfig()
	cfg.DB = memory.New()
	clock := jtx.NewManualClock()
	cfg.Clock = clock
	if withJournal {
		repo, err := sqlite.Open(ctx, relationaldb.SQLiteConfig(":memory:"))
		require.NoError(t, err)
		cfg.Journal = repo
	}

	svc, err := service.New(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Start(ctx))
	t.Cleanup(func() { _ = svc.Close() })

	f := &fixture{svc: svc, clock: clock, master: jtx.MasterAccount(), alice: jtx.NewAccount("alice")}
	f.submit(t, f.master, payment.NewPayment(f.master.Address, f.alice.Address, 1_000_000))
	return f
}

// submit fills in the sequence, signs and applies txn, requiring success.
func (f *fixture) submit(t *testing.T, signer *jtx.Account, txn tx.Transaction) *service.SubmitResult {
	t.Helper()
	res := f.apply(t, signer, txn)
	require.True(t, res.Applied, "%s: %s", res.Result, res.Message)
	return res
}

func (f *fixture) apply(t *testing.T, signer *jtx.Account, txn tx.Transaction) *service.SubmitResult {
	t.Helper()
	info, err := f.svc.GetAccountInfo(context.Background(), signer.Address)
	require.NoError(t, err)
	txn.GetCommon().Sequence = info.Sequence
	require.NoError(t, tx.Sign(txn, signer.KeyPair))
	res, err := f.svc.SubmitTransaction(context.Background(), txn)
	require.NoError(t, err)
	return res
}

func (f *fixture) createEvent(t *testing.T) (communityKey, eventKey string) {
	t.Helper()
	c := community.NewCommunityCreate(f.master.Address, jtx.CommunitySeed("gophers"), "gophers")
	f.submit(t, f.master, c)

	ec := event.NewEventCreate(f.master.Address, c.Keylet().String(), 1)
	ec.Name = "GopherCon"
	ec.Capacity = 10
	ec.CommitmentFee = 500
	ec.EventStartsAt = f.clock.Now().Add(time.Hour).Unix()
	ec.EventEndsAt = f.clock.Now().Add(3 * time.Hour).Unix()
	f.submit(t, f.master, ec)
	return c.Keylet().String(), ec.Keylet().String()
}

func TestServiceRequiresStart(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.DB = memory.New()
	svc, err := service.New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	master := jtx.MasterAccount()
	_, err = svc.SubmitTransaction(context.Background(), payment.NewPayment(master.Address, jtx.NewAccount("alice").Address, 1))
	assert.ErrorIs(t, err, service.ErrNotStarted)
	_, err = svc.GetServerInfo(context.Background())
	assert.ErrorIs(t, err, service.ErrNotStarted)
	assert.Nil(t, svc.Engine())

	_, err = service.New(service.DefaultConfig())
	assert.Error(t, err)
}

func TestSubmitJSON(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	c := community.NewCommunityCreate(f.master.Address, jtx.CommunitySeed("json"), "json")
	c.Sequence = 2
	require.NoError(t, tx.Sign(c, f.master.KeyPair))
	raw, err := tx.ToJSON(c)
	require.NoError(t, err)

	res, err := f.svc.Submit(ctx, raw)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)
	assert.Equal(t, tx.TesSUCCESS, res.Result)
	assert.NotEmpty(t, res.TxID)
	assert.Equal(t, tx.TypeCommunityCreate, res.Transaction.TxType())

	got, err := f.svc.GetCommunity(ctx, c.Keylet().String())
	require.NoError(t, err)
	assert.Equal(t, "json", got.Name)
	assert.Equal(t, f.master.ID, got.Authority)

	// Replaying the same signed blob fails on sequence.
	res, err = f.svc.Submit(ctx, raw)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, tx.TefPAST_SEQ, res.Result)

	_, err = f.svc.Submit(ctx, []byte(`{"TransactionType":"Teleport"}`))
	assert.ErrorIs(t, err, service.ErrMalformed)
	_, err = f.svc.Submit(ctx, []byte(`not json`))
	assert.ErrorIs(t, err, service.ErrMalformed)
}

func TestTicketingQueries(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	_, eventKey := f.createEvent(t)

	f.submit(t, f.alice, attendee.NewEventJoin(f.alice.Address, eventKey))

	ev, err := f.svc.GetEvent(ctx, eventKey)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon", ev.Name)
	assert.Equal(t, uint32(1), ev.TicketsIssued)

	att, err := f.svc.GetAttendee(ctx, eventKey, f.alice.Address)
	require.NoError(t, err)
	assert.Equal(t, sle.StatusPending, att.Status)
	assert.Equal(t, uint32(1), att.Sequence)

	cred, err := f.svc.GetCredential(ctx, eventKey, 1)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, cred.Owner)
	assert.False(t, cred.Scanned)

	coll, err := f.svc.GetCollection(ctx, eventKey)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), coll.Minted)

	esc, err := f.svc.GetEscrow(ctx, eventKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), esc.FeeBalance)
	assert.True(t, esc.Solvent())

	info, err := f.svc.GetAccountInfo(ctx, f.alice.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000-500), info.Balance)
	assert.Equal(t, uint32(2), info.Sequence)
}

func TestQueryErrors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	missing := sle.Hash256{0x01}.String()

	_, err := f.svc.GetEvent(ctx, missing)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetCommunity(ctx, missing)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetEscrow(ctx, missing)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetCredential(ctx, missing, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetAttendee(ctx, missing, f.alice.Address)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetAccountInfo(ctx, jtx.NewAccount("nobody").Address)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.svc.GetEvent(ctx, "xyz")
	assert.ErrorIs(t, err, service.ErrMalformed)
	_, err = f.svc.GetAttendee(ctx, missing, "xyz")
	assert.ErrorIs(t, err, service.ErrMalformed)
	_, err = f.svc.GetAccountInfo(ctx, "")
	assert.ErrorIs(t, err, service.ErrMalformed)
}

func TestTokenBalance(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	m := payment.NewMintCreate(f.master.Address, 1, 2)
	f.submit(t, f.master, m)
	mint := m.Keylet().String()
	f.submit(t, f.master, payment.NewMintIssue(f.master.Address, mint, f.alice.Address, 12345))

	bal, err := f.svc.GetTokenBalance(ctx, f.alice.Address, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), bal.Balance)
	assert.Equal(t, "123.45", bal.Display)

	// No line yet reads as zero.
	bal, err = f.svc.GetTokenBalance(ctx, jtx.NewAccount("bob").Address, mint)
	require.NoError(t, err)
	assert.Zero(t, bal.Balance)
	assert.Equal(t, "0", bal.Display)

	_, err = f.svc.GetTokenBalance(ctx, f.alice.Address, sle.Hash256{0x02}.String())
	assert.ErrorIs(t, err, service.ErrNotFound)

	mintEntry, err := f.svc.GetMint(ctx, mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), mintEntry.Supply)
}

func TestJournalLookups(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, eventKey := f.createEvent(t)
	res := f.submit(t, f.alice, attendee.NewEventJoin(f.alice.Address, eventKey))

	entry, err := f.svc.GetTransaction(ctx, res.TxID)
	require.NoError(t, err)
	assert.Equal(t, "EventJoin", entry.TxType)
	assert.Equal(t, f.alice.Address, entry.Account)

	entries, err := f.svc.GetAccountTransactions(ctx, f.master.Address, 10)
	require.NoError(t, err)
	// Funding payment, community and event.
	require.Len(t, entries, 3)
	assert.Equal(t, "EventCreate", entries[0].TxType)

	_, err = f.svc.GetTransaction(ctx, sle.Hash256{0x09}.String())
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.GetTransaction(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrMalformed)
	_, err = f.svc.GetAccountTransactions(ctx, f.master.Address, 0)
	assert.ErrorIs(t, err, service.ErrMalformed)

	info, err := f.svc.GetServerInfo(ctx)
	require.NoError(t, err)
	assert.True(t, info.JournalEnabled)
	assert.Equal(t, int64(4), info.JournalCount)
}

func TestJournalDisabled(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.GetTransaction(context.Background(), sle.Hash256{}.String())
	assert.ErrorIs(t, err, service.ErrJournalDisabled)
	_, err = f.svc.GetAccountTransactions(context.Background(), f.alice.Address, 10)
	assert.ErrorIs(t, err, service.ErrJournalDisabled)
}

func TestServerInfo(t *testing.T) {
	f := newFixture(t, false)
	info, err := f.svc.GetServerInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "memory", info.Backend)
	assert.False(t, info.JournalEnabled)
	assert.Equal(t, f.master.Address, info.Master)
	assert.Equal(t, f.clock.Now(), info.LedgerTime)
	assert.Contains(t, info.Transactions, "EventJoin")
	assert.Contains(t, info.Transactions, "RewardsClaim")
}

func TestPublisherSeesAppliedTransactions(t *testing.T) {
	f := newFixture(t, false)
	sub := f.svc.Publisher().Subscribe(4)
	defer sub.Close()

	res := f.submit(t, f.master, payment.NewPayment(f.master.Address, jtx.NewAccount("carol").Address, 10))
	failed := f.apply(t, f.alice, payment.NewPayment(f.alice.Address, f.alice.Address, 10))
	require.False(t, failed.Applied)

	select {
	case ev := <-sub.C:
		assert.Equal(t, res.TxID, ev.TxID)
		assert.Equal(t, tx.TypePayment, ev.Type)
		assert.Equal(t, f.master.Address, ev.Account)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
	assert.Empty(t, sub.C, "failed transactions are not published")
}
