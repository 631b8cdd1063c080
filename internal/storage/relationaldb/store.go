package relationaldb

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Dialect captures what differs between the SQL drivers.
type Dialect struct {
	// DriverName is passed to sql.Open.
	DriverName string

	// Schema creates the journal table and its indexes. Statements must be
	// idempotent.
	Schema []string

	// Numbered placeholders ($1, $2) instead of ?.
	NumberedPlaceholders bool
}

// SQLStore implements Repository over database/sql for one Dialect.
type SQLStore struct {
	dialect Dialect
	config  *Config

	mu sync.RWMutex
	db *sql.DB
}

var _ Repository = (*SQLStore)(nil)

// OpenSQLStore connects, pings and applies the schema.
func OpenSQLStore(ctx context.Context, config *Config, dialect Dialect) (*SQLStore, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigurationError("open", "invalid configuration", err)
	}
	connStr, err := config.BuildConnectionString()
	if err != nil {
		return nil, NewConfigurationError("open", "failed to build connection string", err)
	}

	db, err := sql.Open(dialect.DriverName, connStr)
	if err != nil {
		return nil, NewConnectionError("open", "failed to open database connection", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	s := &SQLStore{dialect: dialect, config: config, db: db}
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, NewSchemaError("open", "failed to initialize schema", err)
	}
	return s, nil
}

// DB exposes the pool, for driver-specific maintenance.
func (s *SQLStore) DB() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()
	for _, query := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// bind rewrites ? placeholders for dialects that number them.
func (s *SQLStore) bind(query string) string {
	if !s.dialect.NumberedPlaceholders {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrDatabaseClosed
	}
	return s.db, nil
}

const entryColumns = `idx, trans_id, tx_type, account, sequence, result, code, applied_at, raw_txn, txn_meta`

func (s *SQLStore) Append(ctx context.Context, e *JournalEntry) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()

	query := s.bind(`INSERT INTO journal (trans_id, tx_type, account, sequence, result, code, applied_at, raw_txn, txn_meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (trans_id) DO NOTHING
		RETURNING idx`)
	err = db.QueryRowContext(ctx, query,
		e.Hash[:], e.TxType, e.Account, int64(e.Sequence), e.Result, e.Code,
		e.AppliedAt.UTC().UnixMilli(), e.RawTxn, e.TxnMeta,
	).Scan(&e.Index)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrDuplicateEntry
	case err != nil:
		return NewQueryError("append", "failed to insert journal entry", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, hash Hash) (*JournalEntry, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()

	row := db.QueryRowContext(ctx, s.bind(`SELECT `+entryColumns+` FROM journal WHERE trans_id = ?`), hash[:])
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, NewQueryError("get", "failed to read journal entry", err)
	}
	return e, nil
}

func (s *SQLStore) ListRecent(ctx context.Context, limit int) ([]JournalEntry, error) {
	return s.list(ctx, "list_recent",
		`SELECT `+entryColumns+` FROM journal ORDER BY idx DESC LIMIT ?`, limit)
}

func (s *SQLStore) ListByAccount(ctx context.Context, account string, limit int) ([]JournalEntry, error) {
	return s.list(ctx, "list_by_account",
		`SELECT `+entryColumns+` FROM journal WHERE account = ? ORDER BY idx DESC LIMIT ?`, account, limit)
}

func (s *SQLStore) list(ctx context.Context, op, query string, args ...any) ([]JournalEntry, error) {
	limit := args[len(args)-1].(int)
	if limit <= 0 || limit > MaxListLimit {
		return nil, ErrInvalidLimit
	}
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, NewQueryError(op, "failed to query journal", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, NewQueryError(op, "failed to scan journal entry", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError(op, "failed to iterate journal", err)
	}
	return out, nil
}

func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal").Scan(&count); err != nil {
		return 0, NewQueryError("count", "failed to count journal entries", err)
	}
	return count, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return NewConnectionError("ping", "database ping failed", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return NewConnectionError("close", "failed to close database connection", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*JournalEntry, error) {
	var (
		e         JournalEntry
		hash      []byte
		sequence  int64
		appliedAt int64
		meta      []byte
	)
	if err := row.Scan(&e.Index, &hash, &e.TxType, &e.Account, &sequence, &e.Result, &e.Code, &appliedAt, &e.RawTxn, &meta); err != nil {
		return nil, err
	}
	if len(hash) != len(e.Hash) {
		return nil, ErrInvalidTransactionHash
	}
	copy(e.Hash[:], hash)
	e.Sequence = uint32(sequence)
	e.AppliedAt = time.UnixMilli(appliedAt).UTC()
	if len(meta) > 0 {
		e.TxnMeta = meta
	}
	return &e, nil
}
