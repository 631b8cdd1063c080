package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
)

// CommunityInfoMethod handles the community_info RPC method
type CommunityInfoMethod struct{ publicMethod }

func (m *CommunityInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Community string `json:"community"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Community == "" {
		return nil, rpc_types.RpcErrorMissingField("community")
	}
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	c, err := ledger.GetCommunity(ctx.Context, request.Community)
	if err != nil {
		return nil, ledgerError(err, "Community")
	}
	return map[string]interface{}{"index": request.Community, "community": c}, nil
}

// EventInfoMethod handles the event_info RPC method. The escrow and the
// credential collection ride along with the event.
type EventInfoMethod struct{ publicMethod }

func (m *EventInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request rpc_types.EventParam
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Event == "" {
		return nil, rpc_types.RpcErrorMissingField("event")
	}
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	ev, err := ledger.GetEvent(ctx.Context, request.Event)
	if err != nil {
		return nil, ledgerError(err, "Event")
	}
	escrow, err := ledger.GetEscrow(ctx.Context, request.Event)
	if err != nil {
		return nil, ledgerError(err, "Escrow")
	}
	collection, err := ledger.GetCollection(ctx.Context, request.Event)
	if err != nil {
		return nil, ledgerError(err, "Collection")
	}

	return map[string]interface{}{
		"index":      request.Event,
		"event":      ev,
		"escrow":     escrow,
		"collection": collection,
		"seats_left": ev.Capacity - ev.TicketsIssued,
	}, nil
}

// AttendeeInfoMethod handles the attendee_info RPC method
type AttendeeInfoMethod struct{ publicMethod }

func (m *AttendeeInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.EventParam
		rpc_types.AccountParam
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Event == "" {
		return nil, rpc_types.RpcErrorMissingField("event")
	}
	if request.Account == "" {
		return nil, rpc_types.RpcErrorMissingField("account")
	}
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	att, err := ledger.GetAttendee(ctx.Context, request.Event, request.Account)
	if err != nil {
		return nil, ledgerError(err, "Attendee")
	}
	response := map[string]interface{}{
		"attendee": att,
		"status":   att.Status.String(),
	}
	cred, err := ledger.GetCredential(ctx.Context, request.Event, att.Sequence)
	if err != nil {
		return nil, ledgerError(err, "Credential")
	}
	response["credential"] = cred
	return response, nil
}

// CredentialInfoMethod handles the credential_info RPC method
type CredentialInfoMethod struct{ publicMethod }

func (m *CredentialInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.EventParam
		Sequence uint32 `json:"sequence"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Event == "" {
		return nil, rpc_types.RpcErrorMissingField("event")
	}
	if request.Sequence == 0 {
		return nil, rpc_types.RpcErrorInvalidField("sequence")
	}
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	cred, err := ledger.GetCredential(ctx.Context, request.Event, request.Sequence)
	if err != nil {
		return nil, ledgerError(err, "Credential")
	}
	return map[string]interface{}{"credential": cred}, nil
}

// EscrowInfoMethod handles the escrow_info RPC method
type EscrowInfoMethod struct{ publicMethod }

func (m *EscrowInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request rpc_types.EventParam
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Event == "" {
		return nil, rpc_types.RpcErrorMissingField("event")
	}
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	escrow, err := ledger.GetEscrow(ctx.Context, request.Event)
	if err != nil {
		return nil, ledgerError(err, "Escrow")
	}

	response := map[string]interface{}{
		"escrow":  escrow,
		"solvent": escrow.Solvent(),
	}
	if !escrow.RewardMint.IsZero() {
		mint, err := ledger.GetMint(ctx.Context, escrow.RewardMint.String())
		if err != nil {
			return nil, ledgerError(err, "Mint")
		}
		response["reward_balance_value"] = sle.FormatUnits(escrow.RewardBalance, mint.Decimals)
	}
	return response, nil
}

// MintInfoMethod handles the mint_info RPC method
type MintInfoMethod struct{ publicMethod }

func (m *MintInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Mint string `json:"mint"`
	}
	if rpcErr := decodeParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Mint == "" {
		return nil, rpc_types.RpcErrorMissingField("mint")
	}
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	mint, err := ledger.GetMint(ctx.Context, request.Mint)
	if err != nil {
		return nil, ledgerError(err, "Mint")
	}
	return map[string]interface{}{
		"mint":         mint,
		"supply_value": sle.FormatUnits(mint.Supply, mint.Decimals),
	}, nil
}
