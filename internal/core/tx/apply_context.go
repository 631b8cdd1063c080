package tx

import (
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/rs/zerolog"
)

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// View buffers reads and writes until the engine commits them.
	View *ApplyStateTable

	// Account is the source account (mutable, will be written back by the engine)
	Account *sle.AccountRoot

	// AccountID is the decoded source account ID
	AccountID sle.AccountID

	// CoSigner is the verified co-signing account, zero when absent.
	CoSigner sle.AccountID

	// Now is the ledger time in unix seconds.
	Now int64

	// TxHash is the hash of the current transaction
	TxHash [32]byte

	Log zerolog.Logger
}

// HasCoSigner reports whether a second signature was supplied and verified.
func (ctx *ApplyContext) HasCoSigner() bool {
	return !ctx.CoSigner.IsZero()
}

// ViewResult maps an error from the apply view to a result code.
func (ctx *ApplyContext) ViewResult(err error) Result {
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, ErrEntryExists):
		return TecDUPLICATE
	case errors.Is(err, ErrEntryNotFound):
		return TecNO_ENTRY
	case errors.Is(err, sle.ErrEscrowUnderflow), errors.Is(err, sle.ErrEscrowOverflow):
		ctx.Log.Error().Err(err).Msg("escrow accounting violated")
		return TecINVARIANT_FAILED
	default:
		ctx.Log.Error().Err(err).Msg("ledger view failure")
		return TefINTERNAL
	}
}

// Insert serializes and inserts a new entry.
func (ctx *ApplyContext) Insert(k keylet.Keylet, data []byte, err error) Result {
	if err != nil {
		return ctx.ViewResult(err)
	}
	return ctx.ViewResult(ctx.View.Insert(k, data))
}

// Update serializes and rewrites an existing entry.
func (ctx *ApplyContext) Update(k keylet.Keylet, data []byte, err error) Result {
	if err != nil {
		return ctx.ViewResult(err)
	}
	return ctx.ViewResult(ctx.View.Update(k, data))
}
