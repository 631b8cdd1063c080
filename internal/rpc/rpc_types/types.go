package rpc_types

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// API versions
const (
	ApiVersion1       = 1
	DefaultApiVersion = ApiVersion1
)

// Role gates methods by caller privilege.
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

// RpcContext contains request-specific information
type RpcContext struct {
	Context    context.Context
	Role       Role
	ApiVersion int
	ClientIP   string
	Services   *ServiceContainer
}

// MethodHandler is implemented by every RPC method.
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	RequiredRole() Role
	SupportedApiVersions() []int
}

// MethodRegistry maps method names to handlers. HTTP and websocket share one.
type MethodRegistry struct {
	mu      sync.RWMutex
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names, sorted.
func (r *MethodRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// Request is an HTTP JSON-RPC request:
// {"method": "method_name", "params": [{...}]}
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// WebSocketCommand is a websocket request. Parameters sit next to the
// command at the top level.
type WebSocketCommand struct {
	Command    string          `json:"command"`
	ID         interface{}     `json:"id,omitempty"`
	ApiVersion int             `json:"api_version,omitempty"`
	Params     json.RawMessage `json:"-"`
}

// WebSocketResponse is a websocket reply.
type WebSocketResponse struct {
	Status       string      `json:"status"`
	Type         string      `json:"type"`
	Result       interface{} `json:"result,omitempty"`
	ID           interface{} `json:"id,omitempty"`
	ApiVersion   int         `json:"api_version,omitempty"`
	Error        string      `json:"error,omitempty"`
	ErrorCode    int         `json:"error_code,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// SubscriptionType names a websocket stream.
type SubscriptionType string

const (
	SubTransactions SubscriptionType = "transactions"
)

// SubscriptionRequest is the body of subscribe and unsubscribe. Accounts
// narrows the transactions stream to the listed signers.
type SubscriptionRequest struct {
	Streams  []SubscriptionType `json:"streams,omitempty"`
	Accounts []string           `json:"accounts,omitempty"`
}

// AccountParam is the common account parameter
type AccountParam struct {
	Account string `json:"account"`
}

// EventParam is the common event parameter
type EventParam struct {
	Event string `json:"event"`
}

// TransactionEventMessage is pushed on the transactions stream.
type TransactionEventMessage struct {
	Type                string          `json:"type"`
	Hash                string          `json:"hash"`
	TransactionType     string          `json:"transaction_type"`
	Account             string          `json:"account"`
	Sequence            uint32          `json:"sequence"`
	EngineResult        string          `json:"engine_result"`
	EngineResultCode    int             `json:"engine_result_code"`
	EngineResultMessage string          `json:"engine_result_message"`
	AppliedAt           int64           `json:"applied_at"`
	Transaction         json.RawMessage `json:"transaction"`
	Meta                interface{}     `json:"meta,omitempty"`
}
