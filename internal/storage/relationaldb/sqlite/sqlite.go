// Package sqlite is the embedded journal driver, backed by the pure Go
// modernc.org/sqlite.
package sqlite

import (
	"context"

	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

func init() {
	relationaldb.Register(relationaldb.DriverSQLite, func(ctx context.Context, config *relationaldb.Config) (relationaldb.Repository, error) {
		return Open(ctx, config)
	})
}

var dialect = relationaldb.Dialect{
	DriverName: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS journal (
			idx        INTEGER PRIMARY KEY AUTOINCREMENT,
			trans_id   BLOB    NOT NULL UNIQUE,
			tx_type    TEXT    NOT NULL,
			account    TEXT    NOT NULL,
			sequence   INTEGER NOT NULL,
			result     TEXT    NOT NULL,
			code       INTEGER NOT NULL,
			applied_at INTEGER NOT NULL,
			raw_txn    BLOB    NOT NULL,
			txn_meta   BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_account ON journal(account, idx)`,
	},
}

// Open opens (creating if needed) the journal database described by config.
func Open(ctx context.Context, config *relationaldb.Config) (*relationaldb.SQLStore, error) {
	config = config.Clone()
	if config.Database == ":memory:" {
		// Each connection to :memory: is a separate database.
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
		config.ConnMaxLifetime = 0
		config.ConnMaxIdleTime = 0
	}
	return relationaldb.OpenSQLStore(ctx, config, dialect)
}
