package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
)

// DefaultAccountTxLimit is used when account_tx omits limit.
const DefaultAccountTxLimit = 20

// TxMethod handles the tx RPC method, a journal lookup by hash.
type TxMethod struct{ publicMethod }

func (m *TxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Transaction string `json:"transaction"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Transaction == "" {
		return nil, rpc_types.RpcErrorMissingField("transaction")
	}
	if _, err := relationaldb.ParseHash(request.Transaction); err != nil {
		return nil, rpc_types.NewRpcError(rpc_types.RpcINVALID_HASH, "notHash", "notHash", "Transaction hash is malformed.")
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	entry, err := ledger.GetTransaction(ctx.Context, request.Transaction)
	if errors.Is(err, service.ErrNotFound) {
		return nil, rpc_types.RpcErrorTxnNotFound("Transaction not found.")
	}
	if err != nil {
		return nil, ledgerError(err, "Transaction")
	}
	return journalEntryJSON(entry), nil
}

// AccountTxMethod handles the account_tx RPC method
type AccountTxMethod struct{ publicMethod }

func (m *AccountTxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.AccountParam
		Limit int `json:"limit,omitempty"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Account == "" {
		return nil, rpc_types.RpcErrorMissingField("account")
	}
	if request.Limit == 0 {
		request.Limit = DefaultAccountTxLimit
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	entries, err := ledger.GetAccountTransactions(ctx.Context, request.Account, request.Limit)
	if err != nil {
		return nil, ledgerError(err, "Account")
	}

	txs := make([]map[string]interface{}, 0, len(entries))
	for i := range entries {
		txs = append(txs, journalEntryJSON(&entries[i]))
	}
	return map[string]interface{}{
		"account":      request.Account,
		"limit":        request.Limit,
		"transactions": txs,
	}, nil
}

func journalEntryJSON(e *relationaldb.JournalEntry) map[string]interface{} {
	out := map[string]interface{}{
		"hash":               e.Hash.String(),
		"transaction_type":   e.TxType,
		"account":            e.Account,
		"sequence":           e.Sequence,
		"engine_result":      e.Result,
		"engine_result_code": e.Code,
		"applied_at":         e.AppliedAt.Unix(),
		"journal_index":      e.Index,
	}
	if len(e.RawTxn) > 0 {
		out["tx_json"] = json.RawMessage(e.RawTxn)
	}
	if len(e.TxnMeta) > 0 {
		out["meta"] = json.RawMessage(e.TxnMeta)
	}
	return out
}
