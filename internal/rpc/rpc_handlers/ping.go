package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
)

// PingMethod handles the ping RPC method
type PingMethod struct{ publicMethod }

func (m *PingMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	return map[string]interface{}{}, nil
}
