package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

// Publisher hands out transaction subscriptions.
type Publisher interface {
	Subscribe(buffer int) *service.Subscription
}

// StreamObserver is told when a connection starts or stops streaming.
type StreamObserver interface {
	SubscriberConnected()
	SubscriberDisconnected()
}

type nopObserver struct{}

func (nopObserver) SubscriberConnected()    {}
func (nopObserver) SubscriberDisconnected() {}

// WebSocketServer serves RPC commands and the transactions stream over
// websocket connections.
type WebSocketServer struct {
	upgrader  websocket.Upgrader
	registry  *rpc_types.MethodRegistry
	services  *rpc_types.ServiceContainer
	publisher Publisher
	observer  StreamObserver
	config    Config
	log       zerolog.Logger

	nextID      atomic.Uint64
	mu          sync.Mutex
	connections map[uint64]*wsConnection
	closed      bool
}

// wsConnection represents a single websocket connection. Only writePump
// writes to conn.
type wsConnection struct {
	id       uint64
	conn     *websocket.Conn
	clientIP string
	send     chan []byte
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.Mutex
	sub      *service.Subscription
	allTx    bool
	accounts map[string]struct{}

	closeOnce sync.Once
}

// NewWebSocketServer creates a websocket server dispatching commands through
// registry. observer may be nil.
func NewWebSocketServer(services *rpc_types.ServiceContainer, registry *rpc_types.MethodRegistry,
	publisher Publisher, observer StreamObserver, config Config) *WebSocketServer {
	if observer == nil {
		observer = nopObserver{}
	}
	config = config.withDefaults()
	return &WebSocketServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		registry:    registry,
		services:    services,
		publisher:   publisher,
		observer:    observer,
		config:      config,
		log:         config.Logger.With().Str("component", "websocket").Logger(),
		connections: make(map[uint64]*wsConnection),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (ws *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &wsConnection{
		id:       ws.nextID.Add(1),
		conn:     conn,
		clientIP: getClientIP(r),
		send:     make(chan []byte, ws.config.WebsocketBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}

	ws.mu.Lock()
	if ws.closed {
		ws.mu.Unlock()
		cancel()
		conn.Close()
		return
	}
	ws.connections[c.id] = c
	ws.mu.Unlock()

	ws.log.Debug().Uint64("conn", c.id).Str("client", c.clientIP).Msg("websocket connected")

	go ws.writePump(c)
	ws.readPump(c)
}

// ConnectionCount returns the number of open connections.
func (ws *WebSocketServer) ConnectionCount() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.connections)
}

// Close disconnects every client and refuses new ones.
func (ws *WebSocketServer) Close() {
	ws.mu.Lock()
	ws.closed = true
	conns := make([]*wsConnection, 0, len(ws.connections))
	for _, c := range ws.connections {
		conns = append(conns, c)
	}
	ws.mu.Unlock()

	for _, c := range conns {
		ws.closeConnection(c)
	}
}

func (ws *WebSocketServer) readPump(c *wsConnection) {
	defer ws.closeConnection(c)

	deadline := 2 * ws.config.PingInterval
	c.conn.SetReadLimit(ws.config.MaxRequestBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Debug().Err(err).Uint64("conn", c.id).Msg("websocket read failed")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(deadline))
		ws.handleMessage(c, message)
	}
}

func (ws *WebSocketServer) writePump(c *wsConnection) {
	ticker := time.NewTicker(ws.config.PingInterval)
	defer ticker.Stop()
	defer ws.closeConnection(c)

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				ws.log.Debug().Err(err).Uint64("conn", c.id).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes a single command. Parameters sit beside command
// and id at the top level.
func (ws *WebSocketServer) handleMessage(c *wsConnection, message []byte) {
	var cmdMap map[string]json.RawMessage
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		ws.sendError(c, rpc_types.NewRpcError(rpc_types.RpcPARSE_ERROR, "jsonInvalid", "jsonInvalid", "Invalid JSON: "+err.Error()), nil)
		return
	}

	var cmd rpc_types.WebSocketCommand
	if raw, ok := cmdMap["id"]; ok {
		_ = json.Unmarshal(raw, &cmd.ID)
	}
	if err := json.Unmarshal(cmdMap["command"], &cmd.Command); err != nil || cmd.Command == "" {
		ws.sendError(c, rpc_types.NewRpcError(rpc_types.RpcMISSING_COMMAND, "missingCommand", "missingCommand", "Missing command field"), cmd.ID)
		return
	}
	cmd.ApiVersion = rpc_types.DefaultApiVersion
	if raw, ok := cmdMap["api_version"]; ok {
		_ = json.Unmarshal(raw, &cmd.ApiVersion)
	}
	delete(cmdMap, "command")
	delete(cmdMap, "id")
	delete(cmdMap, "api_version")
	if len(cmdMap) > 0 {
		cmd.Params, _ = json.Marshal(cmdMap)
	}

	switch cmd.Command {
	case "subscribe":
		ws.handleSubscribe(c, cmd)
	case "unsubscribe":
		ws.handleUnsubscribe(c, cmd)
	default:
		rpcCtx := &rpc_types.RpcContext{
			Role:       rpc_types.RoleGuest,
			ApiVersion: cmd.ApiVersion,
			ClientIP:   c.clientIP,
			Services:   ws.services,
		}
		result, rpcErr := dispatch(c.ctx, ws.registry, ws.config.Timeout, ws.log, cmd.Command, cmd.Params, rpcCtx)
		if rpcErr != nil {
			ws.sendError(c, rpcErr, cmd.ID)
			return
		}
		ws.sendResponse(c, cmd, result)
	}
}

func parseSubscription(params json.RawMessage) (rpc_types.SubscriptionRequest, *rpc_types.RpcError) {
	var request rpc_types.SubscriptionRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &request); err != nil {
			return request, rpc_types.RpcErrorInvalidParams("Invalid subscription parameters")
		}
	}
	if len(request.Streams) == 0 && len(request.Accounts) == 0 {
		return request, rpc_types.RpcErrorInvalidParams("Nothing to subscribe to")
	}
	for _, s := range request.Streams {
		if s != rpc_types.SubTransactions {
			return request, rpc_types.RpcErrorStreamMalformed("Unknown stream: " + string(s))
		}
	}
	for i, a := range request.Accounts {
		id, err := sle.ParseAccountID(a)
		if err != nil {
			return request, rpc_types.RpcErrorActMalformed("Account malformed: " + a)
		}
		request.Accounts[i] = id.String()
	}
	return request, nil
}

func (ws *WebSocketServer) handleSubscribe(c *wsConnection, cmd rpc_types.WebSocketCommand) {
	request, rpcErr := parseSubscription(cmd.Params)
	if rpcErr != nil {
		ws.sendError(c, rpcErr, cmd.ID)
		return
	}
	if ws.publisher == nil {
		ws.sendError(c, rpc_types.RpcErrorNotEnabled("transaction stream"), cmd.ID)
		return
	}

	c.mu.Lock()
	if len(request.Streams) > 0 {
		c.allTx = true
	}
	for _, a := range request.Accounts {
		if c.accounts == nil {
			c.accounts = make(map[string]struct{})
		}
		c.accounts[a] = struct{}{}
	}
	var started *service.Subscription
	if c.sub == nil {
		c.sub = ws.publisher.Subscribe(ws.config.WebsocketBuffer)
		started = c.sub
	}
	c.mu.Unlock()

	if started != nil {
		ws.observer.SubscriberConnected()
		go ws.forward(c, started)
	}
	ws.sendResponse(c, cmd, map[string]interface{}{})
}

func (ws *WebSocketServer) handleUnsubscribe(c *wsConnection, cmd rpc_types.WebSocketCommand) {
	request, rpcErr := parseSubscription(cmd.Params)
	if rpcErr != nil {
		ws.sendError(c, rpcErr, cmd.ID)
		return
	}

	c.mu.Lock()
	if len(request.Streams) > 0 {
		c.allTx = false
	}
	for _, a := range request.Accounts {
		delete(c.accounts, a)
	}
	idle := !c.allTx && len(c.accounts) == 0
	c.mu.Unlock()

	if idle {
		ws.stopSubscription(c)
	}
	ws.sendResponse(c, cmd, map[string]interface{}{})
}

// forward copies sub's events onto the connection until sub closes. A
// subscription dropped for falling behind takes the connection with it.
func (ws *WebSocketServer) forward(c *wsConnection, sub *service.Subscription) {
	for ev := range sub.C {
		if !c.wants(sub, ev.Account) {
			continue
		}
		data, err := json.Marshal(transactionMessage(ev))
		if err != nil {
			ws.log.Error().Err(err).Str("tx_id", ev.TxID).Msg("marshal stream event")
			continue
		}
		ws.enqueue(c, data)
	}
	if sub.Dropped() {
		ws.log.Warn().Uint64("conn", c.id).Str("client", c.clientIP).Msg("slow stream subscriber dropped")
		ws.closeConnection(c)
	}
}

func (c *wsConnection) wants(sub *service.Subscription, account string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != sub {
		return false
	}
	if c.allTx {
		return true
	}
	_, ok := c.accounts[strings.ToUpper(account)]
	return ok
}

func transactionMessage(ev service.TransactionEvent) rpc_types.TransactionEventMessage {
	msg := rpc_types.TransactionEventMessage{
		Type:                "transaction",
		Hash:                ev.TxID,
		TransactionType:     ev.Type.String(),
		Account:             ev.Account,
		Sequence:            ev.Sequence,
		EngineResult:        ev.Result.String(),
		EngineResultCode:    int(ev.Result),
		EngineResultMessage: ev.Result.Message(),
		AppliedAt:           ev.AppliedAt.Unix(),
	}
	if ev.Tx != nil {
		if raw, err := tx.ToJSON(ev.Tx); err == nil {
			msg.Transaction = raw
		}
	}
	if ev.Metadata != nil {
		msg.Meta = ev.Metadata
	}
	return msg
}

func (ws *WebSocketServer) stopSubscription(c *wsConnection) {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Close()
		ws.observer.SubscriberDisconnected()
	}
}

func (ws *WebSocketServer) sendResponse(c *wsConnection, cmd rpc_types.WebSocketCommand, result interface{}) {
	data, err := json.Marshal(rpc_types.WebSocketResponse{
		Type:       "response",
		ID:         cmd.ID,
		Status:     "success",
		Result:     result,
		ApiVersion: cmd.ApiVersion,
	})
	if err != nil {
		ws.log.Error().Err(err).Msg("marshal websocket response")
		return
	}
	ws.enqueue(c, data)
}

// sendError sends an error with the fields at the top level.
func (ws *WebSocketServer) sendError(c *wsConnection, rpcErr *rpc_types.RpcError, id interface{}) {
	data, err := json.Marshal(rpc_types.WebSocketResponse{
		Type:         "response",
		ID:           id,
		Status:       "error",
		Error:        rpcErr.ErrorString,
		ErrorCode:    rpcErr.Code,
		ErrorMessage: rpcErr.Message,
	})
	if err != nil {
		ws.log.Error().Err(err).Msg("marshal websocket error")
		return
	}
	ws.enqueue(c, data)
}

// enqueue never blocks; a full queue closes the connection.
func (ws *WebSocketServer) enqueue(c *wsConnection, data []byte) {
	select {
	case <-c.ctx.Done():
	case c.send <- data:
	default:
		ws.log.Warn().Uint64("conn", c.id).Msg("websocket send queue full, closing connection")
		ws.closeConnection(c)
	}
}

func (ws *WebSocketServer) closeConnection(c *wsConnection) {
	c.closeOnce.Do(func() {
		ws.stopSubscription(c)
		c.cancel()

		ws.mu.Lock()
		delete(ws.connections, c.id)
		ws.mu.Unlock()

		// Let writePump send the close frame before tearing down.
		time.AfterFunc(writeWait, func() { c.conn.Close() })
		ws.log.Debug().Uint64("conn", c.id).Msg("websocket closed")
	})
}
