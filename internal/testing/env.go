package testing

import (
	"context"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/entry"
	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/community"
	"github.com/LeJamon/goTicketd/internal/core/tx/credential"
	"github.com/LeJamon/goTicketd/internal/core/tx/event"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	cryptocommon "github.com/LeJamon/goTicketd/internal/crypto/common"
	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/LeJamon/goTicketd/internal/storage/database/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// DefaultFund is the native balance Fund gives each account.
const DefaultFund uint64 = 1_000_000_000

// TestEnv manages a test ledger environment.
type TestEnv struct {
	t        *testing.T
	ctx      context.Context
	store    *state.Store
	engine   *tx.Engine
	clock    *ManualClock
	master   *Account
	accounts map[string]*Account
}

type envConfig struct {
	db       database.DB
	journal  tx.Journal
	observer tx.Observer
	clock    *ManualClock
	logger   zerolog.Logger
}

// Option customizes NewTestEnv.
type Option func(*envConfig)

// WithDB backs the environment with db instead of a fresh memory DB.
func WithDB(db database.DB) Option {
	return func(c *envConfig) { c.db = db }
}

func WithJournal(j tx.Journal) Option {
	return func(c *envConfig) { c.journal = j }
}

func WithObserver(o tx.Observer) Option {
	return func(c *envConfig) { c.observer = o }
}

func WithClock(clock *ManualClock) Option {
	return func(c *envConfig) { c.clock = clock }
}

// WithLogger routes engine logs, which are discarded by default.
func WithLogger(l zerolog.Logger) Option {
	return func(c *envConfig) { c.logger = l }
}

// NewTestEnv creates an environment holding only the genesis master account.
func NewTestEnv(t *testing.T, opts ...Option) *TestEnv {
	t.Helper()

	cfg := envConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.db == nil {
		cfg.db = memory.New()
	}
	if cfg.clock == nil {
		cfg.clock = NewManualClock()
	}

	store, err := state.New(cfg.db, state.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_, err = genesis.Create(ctx, store, genesis.DefaultConfig())
	require.NoError(t, err)

	master := MasterAccount()
	env := &TestEnv{
		t:     t,
		ctx:   ctx,
		store: store,
		engine: tx.NewEngine(store, tx.EngineConfig{
			Clock:    cfg.clock,
			Journal:  cfg.journal,
			Observer: cfg.observer,
			Logger:   cfg.logger,
		}),
		clock:    cfg.clock,
		master:   master,
		accounts: map[string]*Account{master.Address: master},
	}
	return env
}

func (e *TestEnv) Store() *state.Store { return e.store }

func (e *TestEnv) Engine() *tx.Engine { return e.engine }

func (e *TestEnv) MasterAccount() *Account { return e.master }

// Register makes acc's key available for signing without funding it.
func (e *TestEnv) Register(accounts ...*Account) {
	for _, acc := range accounts {
		e.accounts[acc.Address] = acc
	}
}

// Fund pays DefaultFund from the master account to each account.
func (e *TestEnv) Fund(accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		e.FundAmount(acc, DefaultFund)
	}
}

// FundAmount pays amount from the master account to acc.
func (e *TestEnv) FundAmount(acc *Account, amount uint64) {
	e.t.Helper()
	e.Register(acc)
	result := e.Submit(payment.NewPayment(e.master.Address, acc.Address, amount))
	require.True(e.t, result.Success, "fund %s: %s", acc, result.Code)
}

// Prepare fills in the sequence and signs with the source account's key.
// It must run on the test goroutine.
func (e *TestEnv) Prepare(txn tx.Transaction) tx.Transaction {
	e.t.Helper()
	common := txn.GetCommon()
	acc, ok := e.accounts[common.Account]
	require.True(e.t, ok, "account %s not registered in test env", common.Account)

	if common.Sequence == 0 {
		common.Sequence = e.Seq(acc)
	}
	require.NoError(e.t, tx.Sign(txn, acc.KeyPair))
	return txn
}

// CoSign adds cosigner's signature to a prepared transaction.
func (e *TestEnv) CoSign(txn tx.Transaction, cosigner *Account) tx.Transaction {
	e.t.Helper()
	require.NoError(e.t, tx.CoSign(txn, cosigner.KeyPair))
	return txn
}

// Apply submits an already prepared transaction. Safe for concurrent use.
func (e *TestEnv) Apply(txn tx.Transaction) TxResult {
	return newTxResult(e.engine.Apply(e.ctx, txn))
}

// Submit prepares and applies txn.
func (e *TestEnv) Submit(txn tx.Transaction) TxResult {
	e.t.Helper()
	return e.Apply(e.Prepare(txn))
}

// SubmitCoSigned prepares txn, adds cosigner's signature and applies it.
func (e *TestEnv) SubmitCoSigned(txn tx.Transaction, cosigner *Account) TxResult {
	e.t.Helper()
	return e.Apply(e.CoSign(e.Prepare(txn), cosigner))
}

// SubmitSignedWith signs txn with signer's key regardless of its Account
// field, for authorization failure tests.
func (e *TestEnv) SubmitSignedWith(txn tx.Transaction, signer *Account) TxResult {
	e.t.Helper()
	common := txn.GetCommon()
	if common.Sequence == 0 {
		if acc, ok := e.accounts[common.Account]; ok {
			common.Sequence = e.Seq(acc)
		} else {
			common.Sequence = 1
		}
	}
	require.NoError(e.t, tx.Sign(txn, signer.KeyPair))
	return e.Apply(txn)
}

func (e *TestEnv) Now() time.Time { return e.clock.Now() }

func (e *TestEnv) AdvanceTime(d time.Duration) { e.clock.Advance(d) }

func (e *TestEnv) SetTime(t time.Time) { e.clock.Set(t) }

func (e *TestEnv) read(k keylet.Keylet) []byte {
	e.t.Helper()
	data, err := e.store.Read(e.ctx, k)
	require.NoError(e.t, err)
	return data
}

// AccountInfo returns acc's root entry, or nil if it does not exist.
func (e *TestEnv) AccountInfo(acc *Account) *sle.AccountRoot {
	e.t.Helper()
	data := e.read(keylet.Account(acc.ID))
	if data == nil {
		return nil
	}
	root, err := sle.ParseAccountRoot(data)
	require.NoError(e.t, err)
	return root
}

func (e *TestEnv) Exists(acc *Account) bool {
	e.t.Helper()
	return e.AccountInfo(acc) != nil
}

// Balance returns the native balance of acc, zero when it does not exist.
func (e *TestEnv) Balance(acc *Account) uint64 {
	e.t.Helper()
	if info := e.AccountInfo(acc); info != nil {
		return info.Balance
	}
	return 0
}

// Seq returns acc's next sequence.
func (e *TestEnv) Seq(acc *Account) uint32 {
	e.t.Helper()
	info := e.AccountInfo(acc)
	require.NotNil(e.t, info, "account %s does not exist", acc)
	return info.Sequence
}

// TokenBalance returns acc's balance of the mint with hex key mint.
func (e *TestEnv) TokenBalance(acc *Account, mint string) uint64 {
	e.t.Helper()
	data := e.read(keylet.TokenLine(acc.ID, mustHash(e.t, mint)))
	if data == nil {
		return 0
	}
	line, err := sle.ParseTokenLine(data)
	require.NoError(e.t, err)
	return line.Balance
}

func (e *TestEnv) Community(key string) *sle.Community {
	e.t.Helper()
	data := e.read(keylet.FromKey(entry.TypeCommunity, mustHash(e.t, key)))
	if data == nil {
		return nil
	}
	c, err := sle.ParseCommunity(data)
	require.NoError(e.t, err)
	return c
}

func (e *TestEnv) Event(key string) *sle.Event {
	e.t.Helper()
	data := e.read(keylet.FromKey(entry.TypeEvent, mustHash(e.t, key)))
	if data == nil {
		return nil
	}
	ev, err := sle.ParseEvent(data)
	require.NoError(e.t, err)
	return ev
}

func (e *TestEnv) Escrow(event string) *sle.EventEscrow {
	e.t.Helper()
	data := e.read(keylet.EventEscrow(mustHash(e.t, event)))
	if data == nil {
		return nil
	}
	esc, err := sle.ParseEventEscrow(data)
	require.NoError(e.t, err)
	return esc
}

func (e *TestEnv) Collection(event string) *sle.Collection {
	e.t.Helper()
	data := e.read(keylet.Collection(mustHash(e.t, event)))
	if data == nil {
		return nil
	}
	c, err := sle.ParseCollection(data)
	require.NoError(e.t, err)
	return c
}

func (e *TestEnv) Attendee(event string, owner *Account) *sle.Attendee {
	e.t.Helper()
	data := e.read(keylet.Attendee(mustHash(e.t, event), owner.ID))
	if data == nil {
		return nil
	}
	a, err := sle.ParseAttendee(data)
	require.NoError(e.t, err)
	return a
}

// Credential returns credential number seq of event, or nil.
func (e *TestEnv) Credential(event string, seq uint32) *sle.Credential {
	e.t.Helper()
	data := e.read(credential.Keylet(mustHash(e.t, event), seq))
	if data == nil {
		return nil
	}
	c, err := sle.ParseCredential(data)
	require.NoError(e.t, err)
	return c
}

// CommunitySeed derives the seed CreateCommunity uses for name.
func CommunitySeed(name string) string {
	return sle.Hash256(cryptocommon.Sha512Half([]byte("community:" + name))).String()
}

// CreateCommunity registers a community owned by authority and returns its key.
func (e *TestEnv) CreateCommunity(authority *Account, name string) string {
	e.t.Helper()
	c := community.NewCommunityCreate(authority.Address, CommunitySeed(name), name)
	RequireTxSuccess(e.t, e.Submit(c))
	return c.Keylet().String()
}

// CreateOpenCommunity is CreateCommunity with OpenEvents set.
func (e *TestEnv) CreateOpenCommunity(authority *Account, name string) string {
	e.t.Helper()
	c := community.NewCommunityCreate(authority.Address, CommunitySeed(name), name)
	c.OpenEvents = true
	RequireTxSuccess(e.t, e.Submit(c))
	return c.Keylet().String()
}

// CreateEvent submits ec, requires success and returns the event key.
func (e *TestEnv) CreateEvent(ec *event.EventCreate) string {
	e.t.Helper()
	RequireTxSuccess(e.t, e.Submit(ec))
	return ec.Keylet().String()
}

// CreateMint defines a token issued by issuer and returns its key.
func (e *TestEnv) CreateMint(issuer *Account, nonce uint32, decimals uint8) string {
	e.t.Helper()
	m := payment.NewMintCreate(issuer.Address, nonce, decimals)
	RequireTxSuccess(e.t, e.Submit(m))
	return m.Keylet().String()
}

// IssueTokens credits amount of mint to holder.
func (e *TestEnv) IssueTokens(issuer *Account, mint string, holder *Account, amount uint64) {
	e.t.Helper()
	RequireTxSuccess(e.t, e.Submit(payment.NewMintIssue(issuer.Address, mint, holder.Address, amount)))
}

func mustHash(t *testing.T, s string) sle.Hash256 {
	t.Helper()
	h, err := sle.ParseHash256(s)
	require.NoError(t, err)
	return h
}
