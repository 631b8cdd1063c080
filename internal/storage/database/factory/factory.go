// Package factory opens the configured database.DB backend.
package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/LeJamon/goTicketd/internal/storage/compression"
	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/LeJamon/goTicketd/internal/storage/database/compressed"
	"github.com/LeJamon/goTicketd/internal/storage/database/leveldb"
	"github.com/LeJamon/goTicketd/internal/storage/database/memory"
	"github.com/LeJamon/goTicketd/internal/storage/database/pebble"
	"github.com/LeJamon/goTicketd/internal/storage/database/redis"
)

// Config selects and parameterises a backend.
type Config struct {
	// Backend is one of memory, pebble, leveldb or redis.
	Backend string
	// Path is the on-disk directory for pebble and leveldb.
	Path string
	// URL is the redis:// address for the redis backend.
	URL string
	// Prefix namespaces keys on shared redis servers.
	Prefix string
	// Compression names a registered compressor; empty or "none" disables it.
	Compression string
}

func Open(ctx context.Context, cfg Config) (database.DB, error) {
	var (
		db  database.DB
		err error
	)

	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		db = memory.New()
	case "pebble":
		db, err = pebble.Open(cfg.Path)
	case "leveldb":
		db, err = leveldb.Open(cfg.Path)
	case "redis":
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = "ticketd"
		}
		db, err = redis.Open(ctx, cfg.URL, prefix)
	default:
		return nil, fmt.Errorf("%w: %s", database.ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Compression == "" || cfg.Compression == "none" {
		return db, nil
	}
	c, err := compression.Get(cfg.Compression)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return compressed.New(db, c), nil
}
