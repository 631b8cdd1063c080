package rpc_handlers

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
)

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct{ publicMethod }

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	info, err := ledger.GetServerInfo(ctx.Context)
	if err != nil {
		return nil, ledgerError(err, "Server")
	}

	return map[string]interface{}{
		"info": map[string]interface{}{
			"started_at":      info.StartedAt.UTC().Format(time.RFC3339),
			"uptime":          int64(info.Uptime / time.Second),
			"ledger_time":     info.LedgerTime.Unix(),
			"node_db":         info.Backend,
			"journal_enabled": info.JournalEnabled,
			"journal_count":   info.JournalCount,
			"master_account":  info.Master,
			"cache": map[string]interface{}{
				"hits":    info.Cache.Hits,
				"misses":  info.Cache.Misses,
				"entries": info.Cache.Size,
			},
			"transaction_types": info.Transactions,
		},
	}, nil
}
