package config

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/crypto"
)

// LogConfig represents the [log] section
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `toml:"level" mapstructure:"level"`

	// Format is json or console.
	Format string `toml:"format" mapstructure:"format"`
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	logFormats = []string{"json", "console"}
)

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	l.Level = strings.ToLower(l.Level)
	if !contains_slice(logLevels, l.Level) {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
	l.Format = strings.ToLower(l.Format)
	if !contains_slice(logFormats, l.Format) {
		return fmt.Errorf("invalid log format: %s (valid options: json, console)", l.Format)
	}
	return nil
}

// LedgerConfig represents the [ledger] section
type LedgerConfig struct {
	// MasterPassphrase derives the genesis master keypair.
	MasterPassphrase string `toml:"master_passphrase" mapstructure:"master_passphrase"`
	KeyType          string `toml:"key_type" mapstructure:"key_type"`

	// GenesisSupply is the native supply credited to the master account.
	GenesisSupply uint64 `toml:"genesis_supply" mapstructure:"genesis_supply"`

	// Clock is the ledger time source. Only "system" is supported.
	Clock string `toml:"clock" mapstructure:"clock"`

	// SkipSignatureVerification accepts unsigned transactions. Standalone
	// testing only.
	SkipSignatureVerification bool `toml:"skip_signature_verification" mapstructure:"skip_signature_verification"`
}

// Validate performs validation on the ledger configuration
func (l *LedgerConfig) Validate() error {
	if l.MasterPassphrase == "" {
		return fmt.Errorf("master_passphrase is required")
	}
	if crypto.ParseKeyType(l.KeyType) == crypto.KeyTypeUnknown {
		return fmt.Errorf("invalid key_type: %s (valid options: secp256k1, ed25519)", l.KeyType)
	}
	if l.GenesisSupply == 0 {
		return fmt.Errorf("genesis_supply must be positive")
	}
	if l.Clock != "system" {
		return fmt.Errorf("invalid clock: %s (valid options: system)", l.Clock)
	}
	return nil
}

// GenesisConfig converts the section into a genesis config.
func (l *LedgerConfig) GenesisConfig() genesis.Config {
	return genesis.Config{
		Passphrase: l.MasterPassphrase,
		KeyType:    crypto.ParseKeyType(l.KeyType),
		Supply:     l.GenesisSupply,
	}
}
