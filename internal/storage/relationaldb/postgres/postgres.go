// Package postgres is the networked journal driver, backed by lib/pq.
package postgres

import (
	"context"

	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	_ "github.com/lib/pq" // PostgreSQL driver
)

func init() {
	relationaldb.Register(relationaldb.DriverPostgres, func(ctx context.Context, config *relationaldb.Config) (relationaldb.Repository, error) {
		return Open(ctx, config)
	})
}

var dialect = relationaldb.Dialect{
	DriverName:           "postgres",
	NumberedPlaceholders: true,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS journal (
			idx        BIGSERIAL PRIMARY KEY,
			trans_id   BYTEA       NOT NULL UNIQUE,
			tx_type    VARCHAR(32) NOT NULL,
			account    VARCHAR(40) NOT NULL,
			sequence   BIGINT      NOT NULL,
			result     VARCHAR(40) NOT NULL,
			code       INTEGER     NOT NULL,
			applied_at BIGINT      NOT NULL,
			raw_txn    BYTEA       NOT NULL,
			txn_meta   BYTEA,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_account ON journal(account, idx)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_applied_at ON journal(applied_at)`,
	},
}

// Open connects to the PostgreSQL journal described by config.
func Open(ctx context.Context, config *relationaldb.Config) (*relationaldb.SQLStore, error) {
	return relationaldb.OpenSQLStore(ctx, config, dialect)
}
