package testing

import "github.com/LeJamon/goTicketd/internal/core/tx"

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the result token (e.g., "tesSUCCESS").
	Code string

	Result tx.Result

	// Success indicates whether the transaction was applied.
	Success bool

	Message string

	TxID string

	Metadata *tx.Metadata
}

// IsClaimed reports a tec result: the transaction was well formed but the
// ledger state rejected it.
func (r TxResult) IsClaimed() bool {
	return r.Result.IsTec()
}

func newTxResult(res tx.ApplyResult) TxResult {
	return TxResult{
		Code:     res.Result.String(),
		Result:   res.Result,
		Success:  res.Applied,
		Message:  res.Message,
		TxID:     res.TxID,
		Metadata: res.Metadata,
	}
}
