package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
)

// publicMethod supplies the role and version checks shared by every
// read-only and submit method.
type publicMethod struct{}

func (publicMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (publicMethod) SupportedApiVersions() []int {
	return []int{rpc_types.ApiVersion1}
}

// decodeParams unmarshals params into v. Nil params leave v zeroed.
func decodeParams(params json.RawMessage, v interface{}) *rpc_types.RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

func ledgerService(ctx *rpc_types.RpcContext) (rpc_types.LedgerService, *rpc_types.RpcError) {
	if ctx.Services == nil || ctx.Services.Ledger == nil {
		return nil, rpc_types.RpcErrorInternal("Ledger service not available")
	}
	return ctx.Services.Ledger, nil
}

// ledgerError maps service errors onto RPC errors. what names the object
// for not-found messages.
func ledgerError(err error, what string) *rpc_types.RpcError {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return rpc_types.RpcErrorObjectNotFound(what + " not found.")
	case errors.Is(err, service.ErrMalformed):
		return rpc_types.RpcErrorInvalidParams(err.Error())
	case errors.Is(err, service.ErrNotStarted):
		return rpc_types.RpcErrorNotReady("Ledger not started")
	case errors.Is(err, service.ErrJournalDisabled):
		return rpc_types.RpcErrorNotEnabled("journal")
	default:
		return rpc_types.RpcErrorInternal(err.Error())
	}
}

// RegisterAll registers every ticketd method on r.
func RegisterAll(r *rpc_types.MethodRegistry) {
	r.Register("ping", &PingMethod{})
	r.Register("server_info", &ServerInfoMethod{})
	r.Register("submit", &SubmitMethod{})
	r.Register("account_info", &AccountInfoMethod{})
	r.Register("community_info", &CommunityInfoMethod{})
	r.Register("event_info", &EventInfoMethod{})
	r.Register("attendee_info", &AttendeeInfoMethod{})
	r.Register("credential_info", &CredentialInfoMethod{})
	r.Register("escrow_info", &EscrowInfoMethod{})
	r.Register("mint_info", &MintInfoMethod{})
	r.Register("tx", &TxMethod{})
	r.Register("account_tx", &AccountTxMethod{})
}
