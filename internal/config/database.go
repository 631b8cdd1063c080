package config

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/storage/compression"
	"github.com/LeJamon/goTicketd/internal/storage/database/factory"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
)

// NodeDBConfig represents the [node_db] section
// Configures the key-value store holding ledger entries
type NodeDBConfig struct {
	Type        string `toml:"type" mapstructure:"type"`
	Path        string `toml:"path" mapstructure:"path"`
	RedisURL    string `toml:"redis_url" mapstructure:"redis_url"`
	Prefix      string `toml:"prefix" mapstructure:"prefix"`
	Compression string `toml:"compression" mapstructure:"compression"`

	// CacheSize is the number of decoded entries kept in memory.
	CacheSize int `toml:"cache_size" mapstructure:"cache_size"`
}

var nodeDBTypes = []string{"memory", "pebble", "leveldb", "redis"}

// Validate performs validation on the NodeDB configuration
func (n *NodeDBConfig) Validate() error {
	n.Type = strings.ToLower(n.Type)
	if !contains_slice(nodeDBTypes, n.Type) {
		return fmt.Errorf("invalid node_db type: %s (valid options: %s)", n.Type, strings.Join(nodeDBTypes, ", "))
	}

	switch n.Type {
	case "pebble", "leveldb":
		if n.Path == "" {
			return fmt.Errorf("node_db path is required for %s", n.Type)
		}
	case "redis":
		if n.RedisURL == "" {
			return fmt.Errorf("node_db redis_url is required for redis")
		}
	}

	if n.Compression != "" && n.Compression != "none" {
		if _, err := compression.Get(n.Compression); err != nil {
			return fmt.Errorf("node_db compression: %w", err)
		}
	}
	if n.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", n.CacheSize)
	}
	return nil
}

// FactoryConfig converts the section into a backend factory config.
func (n *NodeDBConfig) FactoryConfig() factory.Config {
	return factory.Config{
		Backend:     n.Type,
		Path:        n.Path,
		URL:         n.RedisURL,
		Prefix:      n.Prefix,
		Compression: n.Compression,
	}
}

// JournalConfig represents the [journal] section
type JournalConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Driver  string `toml:"driver" mapstructure:"driver"`

	// DSN is a full connection string. For sqlite it may also be a file
	// path or ":memory:".
	DSN string `toml:"dsn" mapstructure:"dsn"`

	MaxOpenConns int `toml:"max_open_conns" mapstructure:"max_open_conns"`
}

// Validate performs validation on the journal configuration
func (j *JournalConfig) Validate() error {
	j.Driver = strings.ToLower(j.Driver)
	if !j.Enabled {
		return nil
	}
	rc, err := j.RelationalConfig()
	if err != nil {
		return err
	}
	return rc.Validate()
}

// RelationalConfig builds the relational database config for the journal.
func (j *JournalConfig) RelationalConfig() (*relationaldb.Config, error) {
	var rc *relationaldb.Config
	switch strings.ToLower(j.Driver) {
	case "sqlite", "sqlite3":
		path := j.DSN
		if path == "" {
			path = "journal.db"
		}
		rc = relationaldb.SQLiteConfig(path)
	case "postgres", "postgresql":
		if j.DSN == "" {
			return nil, fmt.Errorf("journal dsn is required for postgres")
		}
		rc = relationaldb.PostgresConfig()
		rc.ConnectionString = j.DSN
		if j.MaxOpenConns > 0 {
			rc.MaxOpenConns = j.MaxOpenConns
			if rc.MaxIdleConns > rc.MaxOpenConns {
				rc.MaxIdleConns = rc.MaxOpenConns
			}
		}
	default:
		return nil, fmt.Errorf("invalid journal driver: %s (valid options: sqlite, postgres)", j.Driver)
	}
	return rc, nil
}

// contains_slice checks if a slice contains a specific string
func contains_slice(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
