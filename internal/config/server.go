package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// ServerConfig represents the [server] section
type ServerConfig struct {
	Bind string `toml:"bind" mapstructure:"bind"`
	Port int    `toml:"port" mapstructure:"port"`

	// RPCTimeout bounds a single JSON-RPC request.
	RPCTimeout time.Duration `toml:"rpc_timeout" mapstructure:"rpc_timeout"`

	// MaxRequestBytes caps a JSON-RPC request body.
	MaxRequestBytes int64 `toml:"max_request_bytes" mapstructure:"max_request_bytes"`

	// WebsocketBuffer is the per-subscriber queue length. Slow subscribers
	// are dropped when it fills.
	WebsocketBuffer int `toml:"websocket_buffer" mapstructure:"websocket_buffer"`

	// WebsocketPingInterval is how often idle subscribers are pinged.
	WebsocketPingInterval time.Duration `toml:"websocket_ping_interval" mapstructure:"websocket_ping_interval"`

	// Metrics exposes /metrics when set.
	Metrics bool `toml:"metrics" mapstructure:"metrics"`

	ShutdownTimeout time.Duration `toml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Addr is the host:port the server listens on.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

// Validate performs validation on the server configuration
func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", s.Port)
	}
	if s.Bind != "" && net.ParseIP(s.Bind) == nil && s.Bind != "localhost" {
		return fmt.Errorf("invalid bind address: %s", s.Bind)
	}
	if s.RPCTimeout <= 0 {
		return fmt.Errorf("rpc_timeout must be positive, got %s", s.RPCTimeout)
	}
	if s.MaxRequestBytes <= 0 {
		return fmt.Errorf("max_request_bytes must be positive, got %d", s.MaxRequestBytes)
	}
	if s.WebsocketBuffer <= 0 {
		return fmt.Errorf("websocket_buffer must be positive, got %d", s.WebsocketBuffer)
	}
	if s.WebsocketPingInterval <= 0 {
		return fmt.Errorf("websocket_ping_interval must be positive, got %s", s.WebsocketPingInterval)
	}
	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must be non-negative, got %s", s.ShutdownTimeout)
	}
	return nil
}
