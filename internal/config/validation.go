package config

import "fmt"

// ValidateConfig validates every section. Validation normalizes enum
// fields to lower case.
func ValidateConfig(config *Config) error {
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := config.NodeDB.Validate(); err != nil {
		return fmt.Errorf("node_db validation failed: %w", err)
	}
	if err := config.Journal.Validate(); err != nil {
		return fmt.Errorf("journal validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := config.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger validation failed: %w", err)
	}
	return validateCrossReferences(config)
}

// validateCrossReferences checks settings that span sections.
func validateCrossReferences(config *Config) error {
	if config.Journal.Enabled && config.NodeDB.Type == "memory" && config.Journal.DSN != ":memory:" &&
		config.Journal.Driver == "sqlite" {
		// The journal must not outlive a volatile ledger.
		return fmt.Errorf("journal must be disabled or in memory when node_db type is memory")
	}
	return nil
}
