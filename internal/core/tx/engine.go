package tx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/rs/zerolog"
)

// Engine processes transactions against the account store. Transactions
// touching disjoint keys apply in parallel; transactions sharing a key are
// serialized by the store's lock table, so each observes the other's
// committed state or none of it.
type Engine struct {
	store  *state.Store
	config EngineConfig
	log    zerolog.Logger
}

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// Clock supplies ledger time. Defaults to SystemClock.
	Clock Clock

	// SkipSignatureVerification skips signature checks (for testing/standalone)
	SkipSignatureVerification bool

	// Journal receives applied transactions. Optional.
	Journal Journal

	// Observer sees every result. Optional.
	Observer Observer

	Logger zerolog.Logger
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Applied indicates if the transaction was applied to the ledger
	Applied bool

	// Message is a human-readable result message
	Message string

	// TxID identifies the transaction; empty when preflight failed before
	// it could be computed.
	TxID string

	// Metadata contains the changes made by the transaction
	Metadata *Metadata
}

// Err returns nil for an applied transaction and a *ResultError otherwise.
func (r ApplyResult) Err() error {
	return NewResultError(r.Result, r.Message)
}

// NewEngine creates a new transaction engine
func NewEngine(store *state.Store, config EngineConfig) *Engine {
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}
	return &Engine{
		store:  store,
		config: config,
		log:    config.Logger.With().Str("component", "engine").Logger(),
	}
}

// Store returns the account store the engine applies to.
func (e *Engine) Store() *state.Store {
	return e.store
}

// Now returns the engine's ledger time.
func (e *Engine) Now() time.Time {
	return e.config.Clock.Now()
}

// Apply processes a transaction and applies it to the ledger
func (e *Engine) Apply(ctx context.Context, t Transaction) ApplyResult {
	start := time.Now()
	res := e.apply(ctx, t)

	if e.config.Observer != nil {
		e.config.Observer.Observe(t.TxType(), res.Result, time.Since(start))
	}

	var ev *zerolog.Event
	if res.Applied {
		ev = e.log.Debug()
	} else {
		ev = e.log.Info()
	}
	ev.Str("tx_type", t.TxType().String()).
		Str("account", t.GetCommon().Account).
		Str("result", res.Result.String()).
		Int("code", int(res.Result)).
		Str("tx_id", res.TxID).
		Msg("transaction processed")

	return res
}

func (e *Engine) apply(ctx context.Context, t Transaction) ApplyResult {
	// Step 1: Preflight checks (syntax and signatures)
	if result := e.preflight(t); !result.IsSuccess() {
		return failed(result, "")
	}

	appliable, ok := t.(Appliable)
	if !ok {
		return failed(TemUNKNOWN, "")
	}

	txID, err := TxID(t)
	if err != nil {
		return failed(TefINTERNAL, "failed to compute transaction hash: "+err.Error())
	}
	txIDHex := keylet.EncodeKey(txID)

	// Step 2: Lock every declared key, source account first in the list;
	// the lock table orders acquisition itself.
	common := t.GetCommon()
	accountID := common.AccountID()
	accesses := []state.Access{{Key: keylet.Account(accountID).Key, Writable: true}}
	for _, a := range t.Accesses() {
		accesses = append(accesses, state.Access{Key: a.Keylet.Key, Writable: a.Writable})
	}

	release := e.store.Locks().Acquire(accesses)
	now := e.config.Clock.Now()
	result, meta := e.applyLocked(ctx, t, appliable, accountID, txID, now)
	release()

	res := ApplyResult{
		Result:   result,
		Applied:  result.IsSuccess(),
		Message:  result.Message(),
		TxID:     txIDHex,
		Metadata: meta,
	}

	// Step 3: Tell the journal, outside the locks
	if res.Applied && e.config.Journal != nil {
		rec := &Record{
			TxID:      txID,
			Type:      t.TxType(),
			Account:   common.Account,
			Sequence:  common.Sequence,
			Result:    result,
			AppliedAt: now,
			Tx:        t,
			Metadata:  meta,
		}
		if err := e.config.Journal.Append(ctx, rec); err != nil {
			e.log.Warn().Err(err).Str("tx_id", txIDHex).Msg("journal append failed")
		}
	}
	return res
}

// applyLocked runs with every declared key locked. Nothing is written unless
// the transactor returns tesSUCCESS.
func (e *Engine) applyLocked(ctx context.Context, t Transaction, appliable Appliable, accountID sle.AccountID, txID [32]byte, now time.Time) (Result, *Metadata) {
	table := NewApplyStateTable(ctx, e.store)
	common := t.GetCommon()

	acct, err := sle.ReadAccountRoot(table, accountID)
	if err != nil {
		e.log.Error().Err(err).Msg("read source account")
		return TefINTERNAL, nil
	}
	if acct == nil {
		return TerNO_ACCOUNT, nil
	}

	// Sequence check
	switch {
	case common.Sequence < acct.Sequence:
		return TefPAST_SEQ, nil
	case common.Sequence > acct.Sequence:
		return TerPRE_SEQ, nil
	}

	actx := &ApplyContext{
		View:      table,
		Account:   acct,
		AccountID: accountID,
		Now:       now.Unix(),
		TxHash:    txID,
		Log:       e.log.With().Str("tx_type", t.TxType().String()).Logger(),
	}
	if id, ok := common.CoSignerID(); ok {
		actx.CoSigner = id
	}

	result := appliable.Apply(actx)
	if !result.IsSuccess() {
		return result, nil
	}

	acct.Sequence++
	acct.PreviousTxnID = txID
	data, err := sle.SerializeAccountRoot(acct)
	if err == nil {
		err = table.Update(keylet.Account(accountID), data)
	}
	if err != nil {
		e.log.Error().Err(err).Msg("write source account")
		return TefINTERNAL, nil
	}

	meta := table.Metadata()
	meta.TransactionResult = result
	if err := e.store.Commit(ctx, table.Changes()); err != nil {
		e.log.Error().Err(err).Msg("commit failed")
		return TefINTERNAL, nil
	}
	return result, meta
}

// preflight performs initial validation on the transaction
func (e *Engine) preflight(t Transaction) Result {
	common := t.GetCommon()

	if err := common.Validate(); err != nil {
		return parseValidationError(err)
	}
	if common.TransactionType != t.TxType().String() {
		return TemINVALID
	}

	if common.CoSigner != nil {
		if _, ok := common.CoSignerID(); !ok {
			return TemMALFORMED
		}
		if common.CoSigner.Account == common.Account {
			return TemMALFORMED
		}
	}

	// Verify signatures (unless skipped for testing)
	if !e.config.SkipSignatureVerification {
		if err := VerifySignature(t); err != nil {
			return signatureResult(err)
		}
		if err := VerifyCoSignature(t); err != nil {
			return signatureResult(err)
		}
	}

	// Transaction-specific validation
	if err := t.Validate(); err != nil {
		return parseValidationError(err)
	}
	return TesSUCCESS
}

func signatureResult(err error) Result {
	switch {
	case errors.Is(err, ErrMissingSignature), errors.Is(err, ErrMissingPublicKey):
		return TemBAD_SIGNATURE
	case errors.Is(err, ErrPublicKeyMismatch):
		return TefBAD_AUTH
	default:
		return TefBAD_SIGNATURE
	}
}

// parseValidationError extracts a result code from a validation error message.
// If the error message starts with a result token (e.g., "temMALFORMED:"),
// it returns the corresponding Result. Otherwise, it returns TemINVALID.
func parseValidationError(err error) Result {
	msg := err.Error()
	token := msg
	if i := strings.IndexAny(msg, ": "); i >= 0 {
		token = msg[:i]
	}
	if r, ok := ResultFromName(token); ok && !r.IsSuccess() {
		return r
	}
	return TemINVALID
}

func failed(r Result, msg string) ApplyResult {
	if msg == "" {
		msg = r.Message()
	}
	return ApplyResult{Result: r, Message: msg}
}
