package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthFunc reports whether the node can serve requests.
type HealthFunc func(ctx context.Context) error

// MuxConfig lists the handlers mounted by NewMux. Nil handlers are skipped.
type MuxConfig struct {
	RPC       *Server
	WebSocket *WebSocketServer
	Metrics   http.Handler
	Health    HealthFunc
}

// NewMux mounts JSON-RPC on / and /rpc, the websocket on /ws, plus /health
// and /metrics.
func NewMux(cfg MuxConfig) *http.ServeMux {
	mux := http.NewServeMux()
	if cfg.RPC != nil {
		mux.Handle("/", cfg.RPC)
		mux.Handle("/rpc", cfg.RPC)
	}
	if cfg.WebSocket != nil {
		mux.Handle("/ws", cfg.WebSocket)
	}
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}
	mux.HandleFunc("/health", healthHandler(cfg.Health))
	return mux
}

func healthHandler(check HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := map[string]string{"status": "ok", "service": "ticketd"}
		status := http.StatusOK
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unavailable"
				body["error"] = err.Error()
			}
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
