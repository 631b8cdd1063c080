package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
)

// SubmitMethod handles the submit RPC method. tx_json must already carry
// the sequence and signatures; the node never signs on a caller's behalf.
type SubmitMethod struct{ publicMethod }

func (m *SubmitMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		TxJSON json.RawMessage `json:"tx_json"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if len(request.TxJSON) == 0 || string(request.TxJSON) == "null" {
		return nil, rpc_types.RpcErrorMissingField("tx_json")
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	res, err := ledger.Submit(ctx.Context, request.TxJSON)
	if err != nil {
		return nil, ledgerError(err, "Transaction")
	}

	response := rpc_types.ResultFields(res.Result)
	response["applied"] = res.Applied
	if res.TxID != "" {
		response["hash"] = res.TxID
	}
	if raw, err := tx.ToJSON(res.Transaction); err == nil {
		response["tx_json"] = json.RawMessage(raw)
	}
	if res.Metadata != nil {
		response["meta"] = res.Metadata
	}
	return response, nil
}
