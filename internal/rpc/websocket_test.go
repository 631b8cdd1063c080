package rpc_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/rpc"
	jtx "github.com/LeJamon/goTicketd/internal/testing"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func (n *node) dial(t *testing.T) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(n.http.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(msg map[string]interface{}) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) read() map[string]interface{} {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out map[string]interface{}
	require.NoError(c.t, c.conn.ReadJSON(&out))
	return out
}

// apply signs and submits txn directly against the ledger.
func (n *node) apply(t *testing.T, signer *jtx.Account, txn tx.Transaction) string {
	t.Helper()
	info, err := n.svc.GetAccountInfo(context.Background(), signer.Address)
	require.NoError(t, err)
	txn.GetCommon().Sequence = info.Sequence
	require.NoError(t, tx.Sign(txn, signer.KeyPair))
	res, err := n.svc.SubmitTransaction(context.Background(), txn)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)
	return res.TxID
}

func (n *node) metricsText(t *testing.T) string {
	t.Helper()
	resp, err := http.Get(n.http.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestWebSocketCommands(t *testing.T) {
	n := newNode(t, rpc.DefaultConfig())
	c := n.dial(t)

	c.send(map[string]interface{}{"command": "ping", "id": 1})
	res := c.read()
	assert.Equal(t, "response", res["type"])
	assert.Equal(t, "success", res["status"])
	assert.Equal(t, float64(1), res["id"])

	c.send(map[string]interface{}{"command": "account_info", "id": "a", "account": n.master.Address})
	res = c.read()
	require.Equal(t, "success", res["status"])
	data := res["result"].(map[string]interface{})["account_data"].(map[string]interface{})
	assert.Equal(t, n.master.Address, data["Account"])

	c.send(map[string]interface{}{"command": "warp", "id": 2})
	res = c.read()
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "unknownCmd", res["error"])
	assert.Equal(t, float64(2), res["id"])

	c.send(map[string]interface{}{"id": 3})
	res = c.read()
	assert.Equal(t, "missingCommand", res["error"])
}

func TestWebSocketTransactionStream(t *testing.T) {
	n := newNode(t, rpc.DefaultConfig())
	c := n.dial(t)

	c.send(map[string]interface{}{"command": "subscribe", "id": 1, "streams": []string{"transactions"}})
	res := c.read()
	require.Equal(t, "success", res["status"])
	assert.Contains(t, n.metricsText(t), "ticketd_stream_subscribers 1")

	bob := jtx.NewAccount("bob")
	hash := n.apply(t, n.master, payment.NewPayment(n.master.Address, bob.Address, 1000))

	ev := c.read()
	assert.Equal(t, "transaction", ev["type"])
	assert.Equal(t, hash, ev["hash"])
	assert.Equal(t, "Payment", ev["transaction_type"])
	assert.Equal(t, "tesSUCCESS", ev["engine_result"])
	assert.Equal(t, n.master.Address, ev["account"])
	txJSON := ev["transaction"].(map[string]interface{})
	assert.Equal(t, bob.Address, txJSON["Destination"])

	c.send(map[string]interface{}{"command": "unsubscribe", "id": 2, "streams": []string{"transactions"}})
	res = c.read()
	require.Equal(t, "success", res["status"])
	assert.Contains(t, n.metricsText(t), "ticketd_stream_subscribers 0")
}

func TestWebSocketAccountFilter(t *testing.T) {
	n := newNode(t, rpc.DefaultConfig())
	bob := jtx.NewAccount("bob")
	carol := jtx.NewAccount("carol")
	n.apply(t, n.master, payment.NewPayment(n.master.Address, bob.Address, 1000))

	c := n.dial(t)
	c.send(map[string]interface{}{"command": "subscribe", "accounts": []string{strings.ToLower(bob.Address)}})
	require.Equal(t, "success", c.read()["status"])

	n.apply(t, n.master, payment.NewPayment(n.master.Address, carol.Address, 10))
	hash := n.apply(t, bob, payment.NewPayment(bob.Address, carol.Address, 10))

	ev := c.read()
	assert.Equal(t, hash, ev["hash"])
	assert.Equal(t, bob.Address, ev["account"])
}

func TestWebSocketSubscribeErrors(t *testing.T) {
	n := newNode(t, rpc.DefaultConfig())
	c := n.dial(t)

	c.send(map[string]interface{}{"command": "subscribe", "streams": []string{"ledger"}})
	assert.Equal(t, "malformedStream", c.read()["error"])

	c.send(map[string]interface{}{"command": "subscribe", "accounts": []string{"nope"}})
	assert.Equal(t, "actMalformed", c.read()["error"])

	c.send(map[string]interface{}{"command": "subscribe"})
	assert.Equal(t, "invalidParams", c.read()["error"])
}

func TestWebSocketServerClose(t *testing.T) {
	n := newNode(t, rpc.DefaultConfig())
	c := n.dial(t)
	c.send(map[string]interface{}{"command": "ping"})
	c.read()
	assert.Equal(t, 1, n.ws.ConnectionCount())

	n.ws.Close()
	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := c.conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, n.ws.ConnectionCount())
}
