package config

import (
	"path/filepath"
)

// Config represents the complete ticketd configuration.
type Config struct {
	// Listener for JSON-RPC, websocket and metrics
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// Account store backend
	NodeDB NodeDBConfig `toml:"node_db" mapstructure:"node_db"`

	// Relational journal of applied transactions
	Journal JournalConfig `toml:"journal" mapstructure:"journal"`

	Log LogConfig `toml:"log" mapstructure:"log"`

	// Genesis and ledger clock
	Ledger LedgerConfig `toml:"ledger" mapstructure:"ledger"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// DefaultConfigPath is the file name looked up when no --conf is given.
const DefaultConfigPath = "ticketd.toml"

// ConfigPathFromDir returns the main configuration path inside configDir.
func ConfigPathFromDir(configDir string) string {
	return filepath.Join(configDir, DefaultConfigPath)
}

// GetConfigPath returns the path the configuration was loaded from, or ""
// when only defaults and the environment were used.
func (c *Config) GetConfigPath() string {
	return c.configPath
}
