// Package rpc serves the ledger over HTTP JSON-RPC and a websocket stream.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LeJamon/goTicketd/internal/rpc/rpc_handlers"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
	"github.com/rs/zerolog"
)

// Config carries the transport limits shared by the HTTP and websocket
// servers.
type Config struct {
	// Timeout bounds a single method call
	Timeout time.Duration

	// MaxRequestBytes caps an HTTP body or websocket message
	MaxRequestBytes int64

	// WebsocketBuffer is the per-connection outgoing queue length
	WebsocketBuffer int

	// PingInterval is how often idle websocket connections are pinged
	PingInterval time.Duration

	Logger zerolog.Logger
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRequestBytes: 1 << 20,
		WebsocketBuffer: 256,
		PingInterval:    30 * time.Second,
		Logger:          zerolog.Nop(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxRequestBytes <= 0 {
		c.MaxRequestBytes = def.MaxRequestBytes
	}
	if c.WebsocketBuffer <= 0 {
		c.WebsocketBuffer = def.WebsocketBuffer
	}
	if c.PingInterval <= 0 {
		c.PingInterval = def.PingInterval
	}
	return c
}

// Server handles HTTP JSON-RPC requests
type Server struct {
	registry *rpc_types.MethodRegistry
	services *rpc_types.ServiceContainer
	config   Config
	log      zerolog.Logger
}

// NewServer creates an RPC server with every ticketd method registered.
func NewServer(services *rpc_types.ServiceContainer, config Config) *Server {
	config = config.withDefaults()
	registry := rpc_types.NewMethodRegistry()
	rpc_handlers.RegisterAll(registry)
	return &Server{
		registry: registry,
		services: services,
		config:   config,
		log:      config.Logger.With().Str("component", "rpc").Logger(),
	}
}

// Registry returns the method registry, shared with the websocket server.
func (s *Server) Registry() *rpc_types.MethodRegistry {
	return s.registry
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		s.handleGetRequest(w, r)
	case http.MethodPost:
		s.handlePostRequest(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRequest runs a parameterless method named by ?command=,
// server_info by default.
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}
	result, rpcErr := s.executeMethod(r.Context(), method, nil, s.newContext(r, rpc_types.DefaultApiVersion))
	s.writeResponse(w, nil, result, rpcErr)
}

func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxRequestBytes))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, nil, rpc_types.NewRpcError(rpc_types.RpcJSON_RPC, "tooLarge", "tooLarge",
				"Request exceeds "+strconv.FormatInt(s.config.MaxRequestBytes, 10)+" bytes"))
			return
		}
		s.writeError(w, nil, rpc_types.RpcErrorInternal("Failed to read request body"))
		return
	}

	var request rpc_types.Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, rpc_types.NewRpcError(rpc_types.RpcPARSE_ERROR, "jsonInvalid", "jsonInvalid", "Invalid JSON: "+err.Error()))
		return
	}
	if request.Method == "" {
		s.writeError(w, nil, rpc_types.NewRpcError(rpc_types.RpcMISSING_COMMAND, "missingCommand", "missingCommand", "Missing method field"))
		return
	}

	// params is an array holding one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	apiVersion := rpc_types.DefaultApiVersion
	var requestObj map[string]interface{}
	if params != nil {
		if err := json.Unmarshal(params, &requestObj); err == nil {
			if ver, ok := requestObj["api_version"].(float64); ok {
				apiVersion = int(ver)
			}
		}
	}
	if requestObj == nil {
		requestObj = map[string]interface{}{}
	}
	requestObj["command"] = request.Method

	result, rpcErr := s.executeMethod(r.Context(), request.Method, params, s.newContext(r, apiVersion))
	s.writeResponse(w, requestObj, result, rpcErr)
}

func (s *Server) newContext(r *http.Request, apiVersion int) *rpc_types.RpcContext {
	return &rpc_types.RpcContext{
		Role:       rpc_types.RoleGuest,
		ApiVersion: apiVersion,
		ClientIP:   getClientIP(r),
		Services:   s.services,
	}
}

// executeMethod looks up and runs method under the configured timeout.
func (s *Server) executeMethod(parent context.Context, method string, params json.RawMessage, rpcCtx *rpc_types.RpcContext) (interface{}, *rpc_types.RpcError) {
	return dispatch(parent, s.registry, s.config.Timeout, s.log, method, params, rpcCtx)
}

// dispatch is shared by the HTTP and websocket servers.
func dispatch(parent context.Context, registry *rpc_types.MethodRegistry, timeout time.Duration, log zerolog.Logger,
	method string, params json.RawMessage, rpcCtx *rpc_types.RpcContext) (interface{}, *rpc_types.RpcError) {
	handler, exists := registry.Get(method)
	if !exists {
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}
	if rpcCtx.Role < handler.RequiredRole() {
		return nil, rpc_types.NewRpcError(rpc_types.RpcCOMMAND_UNTRUSTED, "commandUntrusted", "commandUntrusted",
			"Method '"+method+"' requires higher privileges")
	}
	if versions := handler.SupportedApiVersions(); len(versions) > 0 {
		supported := false
		for _, v := range versions {
			if rpcCtx.ApiVersion == v {
				supported = true
				break
			}
		}
		if !supported {
			return nil, rpc_types.RpcErrorInvalidApiVersion(strconv.Itoa(rpcCtx.ApiVersion))
		}
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	rpcCtx.Context = ctx

	start := time.Now()
	result, rpcErr := handler.Handle(rpcCtx, params)
	ev := log.Debug()
	if rpcErr != nil {
		ev = log.Info().Str("error", rpcErr.ErrorString).Int("error_code", rpcErr.Code)
	}
	ev.Str("method", method).
		Str("client", rpcCtx.ClientIP).
		Dur("elapsed", time.Since(start)).
		Msg("rpc call")
	return result, rpcErr
}

// writeResponse writes {"result": {...,"status": "success"|"error"}}.
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	if rpcErr != nil {
		s.writeError(w, request, rpcErr)
		return
	}

	resultMap, ok := result.(map[string]interface{})
	if !ok {
		resultMap = map[string]interface{}{"data": result}
	}
	resultMap["status"] = "success"
	s.write(w, map[string]interface{}{"result": resultMap})
}

func (s *Server) writeError(w http.ResponseWriter, request interface{}, rpcErr *rpc_types.RpcError) {
	resultObj := map[string]interface{}{
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if request != nil {
		resultObj["request"] = request
	}
	s.write(w, map[string]interface{}{"result": resultObj})
}

func (s *Server) write(w http.ResponseWriter, response map[string]interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
