package config

import (
	"fmt"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/spf13/viper"
)

// setDefaults registers every key so environment overrides are picked up by
// Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.rpc_timeout", 30*time.Second)
	v.SetDefault("server.max_request_bytes", 1<<20)
	v.SetDefault("server.websocket_buffer", 256)
	v.SetDefault("server.websocket_ping_interval", 30*time.Second)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// NodeDB defaults
	v.SetDefault("node_db.type", "pebble")
	v.SetDefault("node_db.path", "/var/lib/ticketd/db")
	v.SetDefault("node_db.redis_url", "")
	v.SetDefault("node_db.prefix", "ticketd")
	v.SetDefault("node_db.compression", "lz4")
	v.SetDefault("node_db.cache_size", 16384)

	// Journal defaults
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.driver", "sqlite")
	v.SetDefault("journal.dsn", "/var/lib/ticketd/journal.db")
	v.SetDefault("journal.max_open_conns", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Ledger defaults
	v.SetDefault("ledger.master_passphrase", genesis.DefaultPassphrase)
	v.SetDefault("ledger.key_type", "secp256k1")
	v.SetDefault("ledger.genesis_supply", genesis.InitialSupply)
	v.SetDefault("ledger.clock", "system")
	v.SetDefault("ledger.skip_signature_verification", false)
}

// StandaloneConfig is an in-memory configuration with no journal, used by
// tests and the simulate command. It panics if the defaults fail to decode.
func StandaloneConfig() *Config {
	v := viper.New()
	setDefaults(v)
	config, err := standaloneConfig(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return config
}

func standaloneConfig(v *viper.Viper) (*Config, error) {
	v.Set("node_db.type", "memory")
	v.Set("node_db.compression", "none")
	v.Set("journal.enabled", false)
	return decode(v)
}
