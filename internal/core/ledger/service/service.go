// Package service runs the ledger: it owns the account store and the
// transaction engine, and answers the queries the RPC layer serves.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	_ "github.com/LeJamon/goTicketd/internal/core/tx/all" // registers every transaction type
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	"github.com/rs/zerolog"
)

// Common errors
var (
	ErrNotStarted      = errors.New("service not started")
	ErrNotFound        = errors.New("entry not found")
	ErrJournalDisabled = errors.New("transaction journal is disabled")
	ErrMalformed       = errors.New("malformed request")
)

// Config holds configuration for the Service
type Config struct {
	// DB backs the account store (required)
	DB database.DB

	// CacheSize is the decoded-entry cache size of the store
	CacheSize int

	// GenesisConfig seeds an empty store
	GenesisConfig genesis.Config

	// Journal is the relational transaction journal (optional)
	Journal relationaldb.Repository

	// Journals receive applied transactions in addition to Journal and the
	// publisher
	Journals []tx.Journal

	Observer tx.Observer
	Clock    tx.Clock

	SkipSignatureVerification bool

	// Backend names the DB backend in server_info
	Backend string

	Logger zerolog.Logger
}

// DefaultConfig returns an in-memory standalone configuration without DB;
// callers set DB.
func DefaultConfig() Config {
	return Config{
		GenesisConfig: genesis.DefaultConfig(),
		Backend:       "memory",
		Logger:        zerolog.Nop(),
	}
}

// Service manages the ledger lifecycle
type Service struct {
	mu sync.RWMutex

	config Config
	log    zerolog.Logger

	store     *state.Store
	engine    *tx.Engine
	journal   relationaldb.Repository
	publisher *EventPublisher

	master    sle.AccountID
	startedAt time.Time
}

// New creates a Service over cfg.DB. Start must be called before use.
func New(cfg Config) (*Service, error) {
	if cfg.DB == nil {
		return nil, errors.New("service: DB is required")
	}
	store, err := state.New(cfg.DB, state.Config{CacheSize: cfg.CacheSize})
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	return &Service{
		config:    cfg,
		log:       cfg.Logger.With().Str("component", "ledger").Logger(),
		store:     store,
		journal:   cfg.Journal,
		publisher: NewEventPublisher(),
	}, nil
}

// Start seeds the genesis state if needed and creates the engine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine != nil {
		return nil
	}

	master, err := genesis.Create(ctx, s.store, s.config.GenesisConfig)
	if err != nil {
		return fmt.Errorf("failed to create genesis state: %w", err)
	}

	journals := tx.MultiJournal{s.publisher}
	if s.journal != nil {
		journals = append(journals, relationaldb.NewJournal(s.journal))
	}
	journals = append(journals, s.config.Journals...)

	s.engine = tx.NewEngine(s.store, tx.EngineConfig{
		Clock:                     s.config.Clock,
		SkipSignatureVerification: s.config.SkipSignatureVerification,
		Journal:                   journals,
		Observer:                  s.config.Observer,
		Logger:                    s.config.Logger,
	})
	s.master = master
	s.startedAt = time.Now()

	s.log.Info().
		Str("master", master.String()).
		Str("backend", s.config.Backend).
		Bool("journal", s.journal != nil).
		Msg("ledger started")
	return nil
}

// Close stops the publisher and closes the journal and the store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publisher.Close()
	var errs []error
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	errs = append(errs, s.store.Close())
	s.engine = nil
	return errors.Join(errs...)
}

// Engine returns the transaction engine, or nil before Start.
func (s *Service) Engine() *tx.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Store returns the account store.
func (s *Service) Store() *state.Store {
	return s.store
}

// Publisher streams applied transactions to subscribers.
func (s *Service) Publisher() *EventPublisher {
	return s.publisher
}

// Master returns the genesis master account.
func (s *Service) Master() sle.AccountID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.master
}

func (s *Service) started() (*tx.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return nil, ErrNotStarted
	}
	return s.engine, nil
}

// ServerInfo describes the running node.
type ServerInfo struct {
	StartedAt      time.Time
	Uptime         time.Duration
	LedgerTime     time.Time
	Backend        string
	JournalEnabled bool
	JournalCount   int64
	Master         string
	Cache          state.CacheStats
	Transactions   []string
}

// GetServerInfo reports the node state.
func (s *Service) GetServerInfo(ctx context.Context) (*ServerInfo, error) {
	engine, err := s.started()
	if err != nil {
		return nil, err
	}

	types := tx.SupportedTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	info := &ServerInfo{
		StartedAt:      s.startedAt,
		Uptime:         time.Since(s.startedAt),
		LedgerTime:     engine.Now(),
		Backend:        s.config.Backend,
		JournalEnabled: s.journal != nil,
		Master:         s.Master().String(),
		Cache:          s.store.Stats(),
		Transactions:   names,
	}
	if s.journal != nil {
		count, err := s.journal.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count journal: %w", err)
		}
		info.JournalCount = count
	}
	return info, nil
}
