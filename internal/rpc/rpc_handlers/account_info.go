package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
)

// AccountInfoMethod handles the account_info RPC method. With mint set it
// also reports the account's token balance of that mint.
type AccountInfoMethod struct{ publicMethod }

func (m *AccountInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.AccountParam
		Mint string `json:"mint,omitempty"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Account == "" {
		return nil, rpc_types.RpcErrorMissingField("account")
	}
	if _, err := sle.ParseAccountID(request.Account); err != nil {
		return nil, rpc_types.RpcErrorActMalformed("Account malformed.")
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	info, err := ledger.GetAccountInfo(ctx.Context, request.Account)
	if errors.Is(err, service.ErrNotFound) {
		return nil, rpc_types.RpcErrorActNotFound("Account not found.")
	}
	if err != nil {
		return nil, ledgerError(err, "Account")
	}

	accountData := map[string]interface{}{
		"Account":         info.Account,
		"Balance":         info.Balance,
		"LedgerEntryType": "AccountRoot",
		"OwnerCount":      info.OwnerCount,
		"Sequence":        info.Sequence,
	}
	if info.PreviousTxnID != "" {
		accountData["PreviousTxnID"] = info.PreviousTxnID
	}
	response := map[string]interface{}{
		"account_data": accountData,
	}

	if request.Mint != "" {
		bal, err := ledger.GetTokenBalance(ctx.Context, request.Account, request.Mint)
		if err != nil {
			return nil, ledgerError(err, "Mint")
		}
		response["token_balance"] = map[string]interface{}{
			"mint":     bal.Mint,
			"balance":  bal.Balance,
			"decimals": bal.Decimals,
			"value":    bal.Display,
		}
	}
	return response, nil
}
