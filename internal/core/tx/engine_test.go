package tx_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/core/tx/txmock"
	"github.com/LeJamon/goTicketd/internal/crypto"
	"github.com/LeJamon/goTicketd/internal/storage/database/memory"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type observed struct {
	typ    tx.Type
	result tx.Result
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observed
}

func (o *recordingObserver) Observe(t tx.Type, r tx.Result, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observed{t, r})
}

type engineFixture struct {
	engine *tx.Engine
	store  *state.Store
	master *crypto.KeyPair
	addr   string
}

func newEngine(t *testing.T, cfg tx.EngineConfig) *engineFixture {
	t.Helper()
	store, err := state.New(memory.New(), state.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = genesis.Create(context.Background(), store, genesis.DefaultConfig())
	require.NoError(t, err)
	master, err := genesis.MasterKeyPair(genesis.DefaultConfig())
	require.NoError(t, err)

	if cfg.Clock == nil {
		cfg.Clock = fixedClock{epoch}
	}
	return &engineFixture{
		engine: tx.NewEngine(store, cfg),
		store:  store,
		master: master,
		addr:   sle.AccountID(master.AccountID()).String(),
	}
}

func (f *engineFixture) payment(t *testing.T, seq uint32, amount uint64) *payment.Payment {
	t.Helper()
	p := payment.NewPayment(f.addr, sle.AccountID{0x42}.String(), amount)
	p.Sequence = seq
	require.NoError(t, tx.Sign(p, f.master))
	return p
}

func (f *engineFixture) account(t *testing.T, id sle.AccountID) *sle.AccountRoot {
	t.Helper()
	data, err := f.store.Read(context.Background(), keylet.Account(id))
	require.NoError(t, err)
	if data == nil {
		return nil
	}
	acct, err := sle.ParseAccountRoot(data)
	require.NoError(t, err)
	return acct
}

func TestEngineJournalsAppliedTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	journal := txmock.NewMockJournal(ctrl)
	f := newEngine(t, tx.EngineConfig{Journal: journal})

	var got *tx.Record
	journal.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *tx.Record) error {
		got = rec
		return nil
	}).Times(1)

	res := f.engine.Apply(context.Background(), f.payment(t, 1, 1000))
	require.True(t, res.Applied, res.Message)
	require.NoError(t, res.Err())

	require.NotNil(t, got)
	assert.Equal(t, tx.TypePayment, got.Type)
	assert.Equal(t, tx.TesSUCCESS, got.Result)
	assert.Equal(t, uint32(1), got.Sequence)
	assert.Equal(t, epoch, got.AppliedAt)
	assert.Equal(t, res.TxID, keylet.EncodeKey(got.TxID))
	require.NotNil(t, got.Metadata)
	// Source account modified, destination created.
	assert.Len(t, got.Metadata.AffectedNodes, 2)

	acct := f.account(t, sle.AccountID(f.master.AccountID()))
	assert.Equal(t, uint32(2), acct.Sequence)
	assert.Equal(t, got.TxID, [32]byte(acct.PreviousTxnID))
}

func TestEngineDoesNotJournalFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	journal := txmock.NewMockJournal(ctrl)
	journal.EXPECT().Append(gomock.Any(), gomock.Any()).Times(0)
	f := newEngine(t, tx.EngineConfig{Journal: journal})

	res := f.engine.Apply(context.Background(), f.payment(t, 1, genesis.InitialSupply+1))
	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, res.Result)
	require.False(t, res.Applied)
	require.Nil(t, res.Metadata)

	var rerr *tx.ResultError
	require.ErrorAs(t, res.Err(), &rerr)
	require.Equal(t, tx.TecINSUFFICIENT_FUNDS, rerr.Result)

	// Nothing changed, not even the sequence.
	acct := f.account(t, sle.AccountID(f.master.AccountID()))
	require.Equal(t, uint32(1), acct.Sequence)
	require.Nil(t, f.account(t, sle.AccountID{0x42}))
}

func TestEngineJournalErrorKeepsTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	journal := txmock.NewMockJournal(ctrl)
	journal.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	f := newEngine(t, tx.EngineConfig{Journal: journal})

	res := f.engine.Apply(context.Background(), f.payment(t, 1, 1000))
	require.True(t, res.Applied)
	require.Equal(t, uint64(1000), f.account(t, sle.AccountID{0x42}).Balance)
}

func TestMultiJournalFansOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := txmock.NewMockJournal(ctrl)
	b := txmock.NewMockJournal(ctrl)
	a.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("a failed"))
	b.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	err := tx.MultiJournal{a, nil, b}.Append(context.Background(), &tx.Record{})
	require.ErrorContains(t, err, "a failed")
}

func TestEngineObservesEveryResult(t *testing.T) {
	obs := &recordingObserver{}
	f := newEngine(t, tx.EngineConfig{Observer: obs})

	f.engine.Apply(context.Background(), f.payment(t, 1, 1000))
	f.engine.Apply(context.Background(), f.payment(t, 1, 1000))

	require.Equal(t, []observed{
		{tx.TypePayment, tx.TesSUCCESS},
		{tx.TypePayment, tx.TefPAST_SEQ},
	}, obs.seen)
}

func TestEnginePreflight(t *testing.T) {
	f := newEngine(t, tx.EngineConfig{})
	other, err := crypto.DeriveKeyPair([]byte("0123456789abcdef"), crypto.KeyTypeEd25519)
	require.NoError(t, err)

	tests := []struct {
		name     string
		build    func() tx.Transaction
		expected tx.Result
	}{
		{
			name: "unsigned",
			build: func() tx.Transaction {
				p := payment.NewPayment(f.addr, sle.AccountID{0x42}.String(), 1)
				p.Sequence = 1
				return p
			},
			expected: tx.TemBAD_SIGNATURE,
		},
		{
			name: "signed by another key",
			build: func() tx.Transaction {
				p := payment.NewPayment(f.addr, sle.AccountID{0x42}.String(), 1)
				p.Sequence = 1
				require.NoError(t, tx.Sign(p, other))
				return p
			},
			expected: tx.TefBAD_AUTH,
		},
		{
			name: "tampered after signing",
			build: func() tx.Transaction {
				p := f.payment(t, 1, 1)
				p.Amount = 2
				return p
			},
			expected: tx.TefBAD_SIGNATURE,
		},
		{
			name: "wrong transaction type",
			build: func() tx.Transaction {
				p := f.payment(t, 1, 1)
				p.TransactionType = tx.TypeEventJoin.String()
				return p
			},
			expected: tx.TemINVALID,
		},
		{
			name: "co-signer is the account",
			build: func() tx.Transaction {
				p := f.payment(t, 1, 1)
				p.CoSigner = &tx.Signer{Account: f.addr}
				return p
			},
			expected: tx.TemMALFORMED,
		},
		{
			name: "malformed co-signer",
			build: func() tx.Transaction {
				p := f.payment(t, 1, 1)
				p.CoSigner = &tx.Signer{Account: "nope"}
				return p
			},
			expected: tx.TemMALFORMED,
		},
		{
			name:     "zero amount",
			build:    func() tx.Transaction { return f.payment(t, 1, 0) },
			expected: tx.TemBAD_AMOUNT,
		},
		{
			name:     "future sequence",
			build:    func() tx.Transaction { return f.payment(t, 7, 1) },
			expected: tx.TerPRE_SEQ,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := f.engine.Apply(context.Background(), tc.build())
			require.Equal(t, tc.expected, res.Result, "got %s", res.Result)
			require.False(t, res.Applied)
			require.Equal(t, tc.expected.Message(), res.Message)
		})
	}
}

func TestEngineSkipSignatureVerification(t *testing.T) {
	f := newEngine(t, tx.EngineConfig{SkipSignatureVerification: true})

	p := payment.NewPayment(f.addr, sle.AccountID{0x42}.String(), 5)
	p.Sequence = 1
	res := f.engine.Apply(context.Background(), p)
	require.True(t, res.Applied, res.Message)
}

func TestEngineSerializesSameAccount(t *testing.T) {
	f := newEngine(t, tx.EngineConfig{})

	// Every payment carries sequence 1; exactly one can win.
	const n = 8
	txs := make([]tx.Transaction, n)
	for i := range txs {
		txs[i] = f.payment(t, 1, uint64(i+1))
	}

	var wg sync.WaitGroup
	results := make([]tx.ApplyResult, n)
	for i := range txs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.engine.Apply(context.Background(), txs[i])
		}()
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
			continue
		}
		require.Equal(t, tx.TefPAST_SEQ, r.Result)
	}
	require.Equal(t, 1, applied)
}
