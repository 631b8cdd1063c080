package rpc_handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_handlers"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types/rpcmock"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	aliceID  = sle.AccountID{0xA1}
	alice    = aliceID.String()
	eventKey = sle.Hash256{0xE1}.String()
	mintKey  = sle.Hash256{0x3F}.String()
)

func newContext(t *testing.T) (*rpc_types.RpcContext, *rpcmock.MockLedgerService) {
	ctrl := gomock.NewController(t)
	ledger := rpcmock.NewMockLedgerService(ctrl)
	return &rpc_types.RpcContext{
		Context:    context.Background(),
		Role:       rpc_types.RoleGuest,
		ApiVersion: rpc_types.ApiVersion1,
		Services:   &rpc_types.ServiceContainer{Ledger: ledger},
	}, ledger
}

func params(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestRegisterAll(t *testing.T) {
	r := rpc_types.NewMethodRegistry()
	rpc_handlers.RegisterAll(r)
	assert.Equal(t, []string{
		"account_info", "account_tx", "attendee_info", "community_info", "credential_info",
		"escrow_info", "event_info", "mint_info", "ping", "server_info", "submit", "tx",
	}, r.List())
}

func TestMissingParams(t *testing.T) {
	ctx, _ := newContext(t)
	tests := []struct {
		method  rpc_types.MethodHandler
		field   string
		params  interface{}
		message string
	}{
		{&rpc_handlers.AccountInfoMethod{}, "account", nil, "Missing field 'account'."},
		{&rpc_handlers.CommunityInfoMethod{}, "community", nil, "Missing field 'community'."},
		{&rpc_handlers.EventInfoMethod{}, "event", nil, "Missing field 'event'."},
		{&rpc_handlers.AttendeeInfoMethod{}, "account", map[string]string{"event": eventKey}, "Missing field 'account'."},
		{&rpc_handlers.CredentialInfoMethod{}, "sequence", map[string]string{"event": eventKey}, "Invalid field 'sequence'."},
		{&rpc_handlers.EscrowInfoMethod{}, "event", nil, "Missing field 'event'."},
		{&rpc_handlers.MintInfoMethod{}, "mint", nil, "Missing field 'mint'."},
		{&rpc_handlers.SubmitMethod{}, "tx_json", map[string]interface{}{"tx_json": nil}, "Missing field 'tx_json'."},
		{&rpc_handlers.TxMethod{}, "transaction", nil, "Missing field 'transaction'."},
		{&rpc_handlers.AccountTxMethod{}, "account", nil, "Missing field 'account'."},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%T", tc.method), func(t *testing.T) {
			var raw json.RawMessage
			if tc.params != nil {
				raw = params(t, tc.params)
			}
			_, rpcErr := tc.method.Handle(ctx, raw)
			require.NotNil(t, rpcErr)
			assert.Equal(t, rpc_types.RpcINVALID_PARAMS, rpcErr.Code)
			assert.Equal(t, tc.message, rpcErr.Message)
		})
	}
}

func TestInvalidJSONParams(t *testing.T) {
	ctx, _ := newContext(t)
	_, rpcErr := (&rpc_handlers.EventInfoMethod{}).Handle(ctx, json.RawMessage(`{"event": 5}`))
	require.NotNil(t, rpcErr)
	assert.Equal(t, "invalidParams", rpcErr.ErrorString)
}

func TestNoLedgerService(t *testing.T) {
	ctx := &rpc_types.RpcContext{Context: context.Background()}
	_, rpcErr := (&rpc_handlers.ServerInfoMethod{}).Handle(ctx, nil)
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcINTERNAL, rpcErr.Code)
}

func TestPing(t *testing.T) {
	ctx, _ := newContext(t)
	res, rpcErr := (&rpc_handlers.PingMethod{}).Handle(ctx, nil)
	require.Nil(t, rpcErr)
	assert.Empty(t, res)
}

func TestAccountInfo(t *testing.T) {
	ctx, ledger := newContext(t)
	ledger.EXPECT().GetAccountInfo(gomock.Any(), alice).Return(&service.AccountInfoResult{
		Account: alice, Balance: 900, OwnerCount: 1, Sequence: 4,
	}, nil)
	ledger.EXPECT().GetTokenBalance(gomock.Any(), alice, mintKey).Return(&service.TokenBalance{
		Holder: alice, Mint: mintKey, Balance: 1500, Decimals: 3, Display: "1.5",
	}, nil)

	res, rpcErr := (&rpc_handlers.AccountInfoMethod{}).Handle(ctx, params(t, map[string]string{"account": alice, "mint": mintKey}))
	require.Nil(t, rpcErr)
	out := res.(map[string]interface{})

	data := out["account_data"].(map[string]interface{})
	assert.Equal(t, uint64(900), data["Balance"])
	assert.Equal(t, uint32(4), data["Sequence"])
	assert.NotContains(t, data, "PreviousTxnID")

	bal := out["token_balance"].(map[string]interface{})
	assert.Equal(t, "1.5", bal["value"])
}

func TestAccountInfoErrors(t *testing.T) {
	ctx, ledger := newContext(t)

	_, rpcErr := (&rpc_handlers.AccountInfoMethod{}).Handle(ctx, params(t, map[string]string{"account": "rXYZ"}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcACT_MALFORMED, rpcErr.Code)

	ledger.EXPECT().GetAccountInfo(gomock.Any(), alice).Return(nil, service.ErrNotFound)
	_, rpcErr = (&rpc_handlers.AccountInfoMethod{}).Handle(ctx, params(t, map[string]string{"account": alice}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcACT_NOT_FOUND, rpcErr.Code)
}

func TestLedgerErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrNotFound, rpc_types.RpcOBJECT_NOT_FOUND},
		{fmt.Errorf("%w: event: bad hex", service.ErrMalformed), rpc_types.RpcINVALID_PARAMS},
		{service.ErrNotStarted, rpc_types.RpcNO_CURRENT},
		{service.ErrJournalDisabled, rpc_types.RpcNOT_ENABLED},
		{errors.New("disk on fire"), rpc_types.RpcINTERNAL},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			ctx, ledger := newContext(t)
			ledger.EXPECT().GetEscrow(gomock.Any(), eventKey).Return(nil, tc.err)
			_, rpcErr := (&rpc_handlers.EscrowInfoMethod{}).Handle(ctx, params(t, map[string]string{"event": eventKey}))
			require.NotNil(t, rpcErr)
			assert.Equal(t, tc.code, rpcErr.Code)
		})
	}
}

func TestEventInfo(t *testing.T) {
	ctx, ledger := newContext(t)
	ev := &sle.Event{Name: "GopherCon", Capacity: 10, TicketsIssued: 3}
	escrow := &sle.EventEscrow{FeeBalance: 300}
	ledger.EXPECT().GetEvent(gomock.Any(), eventKey).Return(ev, nil)
	ledger.EXPECT().GetEscrow(gomock.Any(), eventKey).Return(escrow, nil)
	ledger.EXPECT().GetCollection(gomock.Any(), eventKey).Return(&sle.Collection{Minted: 3}, nil)

	res, rpcErr := (&rpc_handlers.EventInfoMethod{}).Handle(ctx, params(t, map[string]string{"event": eventKey}))
	require.Nil(t, rpcErr)
	out := res.(map[string]interface{})
	assert.Same(t, ev, out["event"])
	assert.Same(t, escrow, out["escrow"])
	assert.Equal(t, uint32(7), out["seats_left"])
}

func TestAttendeeInfo(t *testing.T) {
	ctx, ledger := newContext(t)
	ledger.EXPECT().GetAttendee(gomock.Any(), eventKey, alice).Return(&sle.Attendee{Status: sle.StatusVerified, Sequence: 2}, nil)
	ledger.EXPECT().GetCredential(gomock.Any(), eventKey, uint32(2)).Return(&sle.Credential{Sequence: 2, Owner: aliceID, Scanned: true}, nil)

	res, rpcErr := (&rpc_handlers.AttendeeInfoMethod{}).Handle(ctx, params(t, map[string]string{"event": eventKey, "account": alice}))
	require.Nil(t, rpcErr)
	out := res.(map[string]interface{})
	assert.Equal(t, sle.StatusVerified.String(), out["status"])
	assert.True(t, out["credential"].(*sle.Credential).Scanned)
}

func TestEscrowInfoWithReward(t *testing.T) {
	ctx, ledger := newContext(t)
	mint := sle.Hash256{0x3F}
	ledger.EXPECT().GetEscrow(gomock.Any(), eventKey).Return(&sle.EventEscrow{
		RewardMint: mint, RewardBalance: 2500, RewardsDeposited: 2500,
	}, nil)
	ledger.EXPECT().GetMint(gomock.Any(), mint.String()).Return(&sle.Mint{Decimals: 2}, nil)

	res, rpcErr := (&rpc_handlers.EscrowInfoMethod{}).Handle(ctx, params(t, map[string]string{"event": eventKey}))
	require.Nil(t, rpcErr)
	out := res.(map[string]interface{})
	assert.Equal(t, "25", out["reward_balance_value"])
	assert.Equal(t, true, out["solvent"])
}

func TestMintInfo(t *testing.T) {
	ctx, ledger := newContext(t)
	ledger.EXPECT().GetMint(gomock.Any(), mintKey).Return(&sle.Mint{Decimals: 2, Supply: 12345}, nil)
	res, rpcErr := (&rpc_handlers.MintInfoMethod{}).Handle(ctx, params(t, map[string]string{"mint": mintKey}))
	require.Nil(t, rpcErr)
	assert.Equal(t, "123.45", res.(map[string]interface{})["supply_value"])
}

func TestSubmit(t *testing.T) {
	ctx, ledger := newContext(t)
	pay := payment.NewPayment(alice, sle.AccountID{0xB0}.String(), 10)
	pay.Sequence = 1
	raw, err := tx.ToJSON(pay)
	require.NoError(t, err)

	ledger.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, body []byte) (*service.SubmitResult, error) {
		assert.JSONEq(t, string(raw), string(body))
		return &service.SubmitResult{
			Result: tx.TecINSUFFICIENT_FUNDS, Message: tx.TecINSUFFICIENT_FUNDS.Message(),
			TxID: "AB", Transaction: pay,
		}, nil
	})

	res, rpcErr := (&rpc_handlers.SubmitMethod{}).Handle(ctx, params(t, map[string]json.RawMessage{"tx_json": raw}))
	require.Nil(t, rpcErr)
	out := res.(map[string]interface{})
	assert.Equal(t, "tecINSUFFICIENT_FUNDS", out["engine_result"])
	assert.Equal(t, int(tx.TecINSUFFICIENT_FUNDS), out["engine_result_code"])
	assert.Equal(t, false, out["applied"])
	assert.Equal(t, "AB", out["hash"])
	assert.NotContains(t, out, "meta")
}

func TestSubmitMalformed(t *testing.T) {
	ctx, ledger := newContext(t)
	ledger.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: tx_json: unknown type", service.ErrMalformed))
	_, rpcErr := (&rpc_handlers.SubmitMethod{}).Handle(ctx, json.RawMessage(`{"tx_json": {"TransactionType": "Teleport"}}`))
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcINVALID_PARAMS, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "unknown type")
}

func TestTx(t *testing.T) {
	ctx, ledger := newContext(t)
	hash := relationaldb.Hash{0x42}

	_, rpcErr := (&rpc_handlers.TxMethod{}).Handle(ctx, params(t, map[string]string{"transaction": "zz"}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcINVALID_HASH, rpcErr.Code)

	ledger.EXPECT().GetTransaction(gomock.Any(), hash.String()).Return(nil, service.ErrNotFound)
	_, rpcErr = (&rpc_handlers.TxMethod{}).Handle(ctx, params(t, map[string]string{"transaction": hash.String()}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcTXN_NOT_FOUND, rpcErr.Code)

	ledger.EXPECT().GetTransaction(gomock.Any(), hash.String()).Return(&relationaldb.JournalEntry{
		Index: 7, Hash: hash, TxType: "EventJoin", Account: alice, Sequence: 3,
		Result: "tesSUCCESS", AppliedAt: time.Unix(1700000000, 0), RawTxn: []byte(`{"TransactionType":"EventJoin"}`),
	}, nil)
	res, rpcErr := (&rpc_handlers.TxMethod{}).Handle(ctx, params(t, map[string]string{"transaction": hash.String()}))
	require.Nil(t, rpcErr)
	out := res.(map[string]interface{})
	assert.Equal(t, "EventJoin", out["transaction_type"])
	assert.Equal(t, int64(1700000000), out["applied_at"])
	assert.Equal(t, json.RawMessage(`{"TransactionType":"EventJoin"}`), out["tx_json"])
	assert.NotContains(t, out, "meta")
}

func TestAccountTx(t *testing.T) {
	ctx, ledger := newContext(t)
	ledger.EXPECT().GetAccountTransactions(gomock.Any(), alice, rpc_handlers.DefaultAccountTxLimit).Return([]relationaldb.JournalEntry{
		{Index: 2, TxType: "EventJoin"}, {Index: 1, TxType: "Payment"},
	}, nil)

	res, rpcErr := (&rpc_handlers.AccountTxMethod{}).Handle(ctx, params(t, map[string]string{"account": alice}))
	require.Nil(t, rpcErr)
	txs := res.(map[string]interface{})["transactions"].([]map[string]interface{})
	require.Len(t, txs, 2)
	assert.Equal(t, "EventJoin", txs[0]["transaction_type"])

	ledger.EXPECT().GetAccountTransactions(gomock.Any(), alice, 5).Return(nil, service.ErrJournalDisabled)
	_, rpcErr = (&rpc_handlers.AccountTxMethod{}).Handle(ctx, params(t, map[string]interface{}{"account": alice, "limit": 5}))
	require.NotNil(t, rpcErr)
	assert.Equal(t, rpc_types.RpcNOT_ENABLED, rpcErr.Code)
}

func TestServerInfo(t *testing.T) {
	ctx, ledger := newContext(t)
	ledger.EXPECT().GetServerInfo(gomock.Any()).Return(&service.ServerInfo{
		StartedAt: time.Unix(0, 0), Uptime: 90 * time.Second, LedgerTime: time.Unix(1735689600, 0),
		Backend: "pebble", JournalEnabled: true, JournalCount: 12, Transactions: []string{"Payment"},
	}, nil)

	res, rpcErr := (&rpc_handlers.ServerInfoMethod{}).Handle(ctx, nil)
	require.Nil(t, rpcErr)
	info := res.(map[string]interface{})["info"].(map[string]interface{})
	assert.Equal(t, int64(90), info["uptime"])
	assert.Equal(t, "pebble", info["node_db"])
	assert.Equal(t, int64(12), info["journal_count"])
	assert.Equal(t, int64(1735689600), info["ledger_time"])
}
