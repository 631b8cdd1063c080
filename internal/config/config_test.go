package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/crypto"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	mainConfigContent := `
[server]
bind = "0.0.0.0"
port = 6006
rpc_timeout = "5s"

[node_db]
type = "LevelDB"
path = "/tmp/test/db"
compression = "none"

[journal]
driver = "postgres"
dsn = "postgres://ticketd@db/ticketd"
max_open_conns = 4

[log]
level = "DEBUG"
format = "json"
`
	configPath := ConfigPathFromDir(tempDir)
	require.NoError(t, os.WriteFile(configPath, []byte(mainConfigContent), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, configPath, config.GetConfigPath())
	assert.Equal(t, "0.0.0.0:6006", config.Server.Addr())
	assert.Equal(t, 5*time.Second, config.Server.RPCTimeout)
	// Unset keys keep their defaults.
	assert.Equal(t, 256, config.Server.WebsocketBuffer)

	assert.Equal(t, "leveldb", config.NodeDB.Type)
	assert.Equal(t, "/tmp/test/db", config.NodeDB.FactoryConfig().Path)

	rc, err := config.Journal.RelationalConfig()
	require.NoError(t, err)
	assert.Equal(t, relationaldb.DriverPostgres, rc.Driver)
	assert.Equal(t, "postgres://ticketd@db/ticketd", rc.ConnectionString)
	assert.Equal(t, 4, rc.MaxOpenConns)
	assert.LessOrEqual(t, rc.MaxIdleConns, 4)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)

	gc := config.Ledger.GenesisConfig()
	assert.Equal(t, genesis.DefaultPassphrase, gc.Passphrase)
	assert.Equal(t, crypto.KeyTypeSecp256k1, gc.KeyType)
	assert.Equal(t, genesis.InitialSupply, gc.Supply)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("TICKETD_SERVER_PORT", "7007")
	t.Setenv("TICKETD_NODE_DB_TYPE", "redis")
	t.Setenv("TICKETD_NODE_DB_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("TICKETD_LEDGER_KEY_TYPE", "ed25519")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, config.GetConfigPath())
	assert.Equal(t, 7007, config.Server.Port)
	assert.Equal(t, "redis", config.NodeDB.Type)
	assert.Equal(t, "redis://cache:6379/2", config.NodeDB.FactoryConfig().URL)
	assert.Equal(t, crypto.KeyTypeEd25519, config.Ledger.GenesisConfig().KeyType)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticketd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 0\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server config validation failed")
}

func TestStandaloneConfig(t *testing.T) {
	config := StandaloneConfig()
	require.NoError(t, ValidateConfig(config))
	assert.Equal(t, "memory", config.NodeDB.Type)
	assert.False(t, config.Journal.Enabled)
}

func TestStandaloneConfigRejectsBadDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetDefault("server.port", "not-a-port")

	_, err := standaloneConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")

	assert.NotPanics(t, func() { StandaloneConfig() })
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{name: "standalone", modify: func(*Config) {}},
		{name: "bad port", modify: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid port"},
		{name: "bad bind", modify: func(c *Config) { c.Server.Bind = "not an ip" }, wantErr: "invalid bind address"},
		{name: "zero timeout", modify: func(c *Config) { c.Server.RPCTimeout = 0 }, wantErr: "rpc_timeout"},
		{name: "zero websocket buffer", modify: func(c *Config) { c.Server.WebsocketBuffer = 0 }, wantErr: "websocket_buffer"},
		{name: "unknown backend", modify: func(c *Config) { c.NodeDB.Type = "nudb" }, wantErr: "invalid node_db type"},
		{name: "pebble without path", modify: func(c *Config) {
			c.NodeDB.Type = "pebble"
			c.NodeDB.Path = ""
		}, wantErr: "path is required"},
		{name: "redis without url", modify: func(c *Config) { c.NodeDB.Type = "redis" }, wantErr: "redis_url is required"},
		{name: "unknown compression", modify: func(c *Config) { c.NodeDB.Compression = "zstd" }, wantErr: "compression"},
		{name: "negative cache", modify: func(c *Config) { c.NodeDB.CacheSize = -1 }, wantErr: "cache_size"},
		{name: "unknown journal driver", modify: func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.Driver = "mysql"
		}, wantErr: "invalid journal driver"},
		{name: "postgres journal without dsn", modify: func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.Driver = "postgres"
			c.Journal.DSN = ""
		}, wantErr: "dsn is required"},
		{name: "in-memory journal over memory store", modify: func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.Driver = "sqlite"
			c.Journal.DSN = ":memory:"
		}},
		{name: "file journal over memory store", modify: func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.Driver = "sqlite"
			c.Journal.DSN = "journal.db"
		}, wantErr: "journal must be disabled"},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: "invalid log level"},
		{name: "bad log format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: "invalid log format"},
		{name: "empty passphrase", modify: func(c *Config) { c.Ledger.MasterPassphrase = "" }, wantErr: "master_passphrase"},
		{name: "bad key type", modify: func(c *Config) { c.Ledger.KeyType = "rsa" }, wantErr: "invalid key_type"},
		{name: "zero supply", modify: func(c *Config) { c.Ledger.GenesisSupply = 0 }, wantErr: "genesis_supply"},
		{name: "manual clock", modify: func(c *Config) { c.Ledger.Clock = "manual" }, wantErr: "invalid clock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := StandaloneConfig()
			tt.modify(config)
			err := ValidateConfig(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
