package di

import (
	"context"
	"errors"
	"net/http"

	"github.com/LeJamon/goTicketd/internal/config"
	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/rpc"
	"github.com/LeJamon/goTicketd/internal/rpc/rpc_types"
	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/LeJamon/goTicketd/internal/storage/database/factory"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	_ "github.com/LeJamon/goTicketd/internal/storage/relationaldb/postgres"
	_ "github.com/LeJamon/goTicketd/internal/storage/relationaldb/sqlite"
	"github.com/LeJamon/goTicketd/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
	logger    zerolog.Logger
	ctx       context.Context
}

// NewProvider creates a new service provider. ctx bounds the connections
// opened while building storage services.
func NewProvider(ctx context.Context, container *Container, cfg *config.Config, logger zerolog.Logger) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
		logger:    logger,
		ctx:       ctx,
	}
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() error {
	p.container.Register(ServiceConfig, p.config)
	p.container.Register(ServiceLogger, p.logger)
	p.container.Register(ServiceMetrics, telemetry.New())

	p.registerStorageBuilders()
	p.registerLedgerBuilders()
	p.registerRPCBuilders()
	return nil
}

func (p *Provider) registerStorageBuilders() {
	p.container.RegisterBuilder(ServiceNodeDB, func(c *Container) (interface{}, error) {
		return factory.Open(p.ctx, p.config.NodeDB.FactoryConfig())
	})

	// The journal resolves to a nil Repository when disabled.
	p.container.RegisterBuilder(ServiceJournal, func(c *Container) (interface{}, error) {
		if !p.config.Journal.Enabled {
			return relationaldb.Repository(nil), nil
		}
		cfg, err := p.config.Journal.RelationalConfig()
		if err != nil {
			return nil, err
		}
		return relationaldb.Open(p.ctx, cfg)
	})
}

func (p *Provider) registerLedgerBuilders() {
	p.container.RegisterBuilder(ServiceLedger, func(c *Container) (interface{}, error) {
		db, err := Resolve[database.DB](c, ServiceNodeDB)
		if err != nil {
			return nil, err
		}
		journal, err := c.Get(ServiceJournal)
		if err != nil {
			return nil, err
		}
		metrics, err := Resolve[*telemetry.Metrics](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}

		cfg := service.DefaultConfig()
		cfg.DB = db
		cfg.CacheSize = p.config.NodeDB.CacheSize
		cfg.GenesisConfig = p.config.Ledger.GenesisConfig()
		cfg.Observer = metrics
		cfg.Journals = []tx.Journal{metrics}
		cfg.SkipSignatureVerification = p.config.Ledger.SkipSignatureVerification
		cfg.Backend = p.config.NodeDB.Type
		cfg.Logger = p.logger
		if repo, ok := journal.(relationaldb.Repository); ok && repo != nil {
			cfg.Journal = repo
		}

		svc, err := service.New(cfg)
		if err != nil {
			return nil, err
		}
		svc.Publisher().OnDrop = metrics.SubscriberDropped
		metrics.RegisterStore(svc.Store())
		return svc, nil
	})

	p.container.RegisterBuilder(ServiceEventPublisher, func(c *Container) (interface{}, error) {
		svc, err := Resolve[*service.Service](c, ServiceLedger)
		if err != nil {
			return nil, err
		}
		return svc.Publisher(), nil
	})
}

func (p *Provider) rpcConfig() rpc.Config {
	return rpc.Config{
		Timeout:         p.config.Server.RPCTimeout,
		MaxRequestBytes: p.config.Server.MaxRequestBytes,
		WebsocketBuffer: p.config.Server.WebsocketBuffer,
		PingInterval:    p.config.Server.WebsocketPingInterval,
		Logger:          p.logger,
	}
}

func (p *Provider) registerRPCBuilders() {
	p.container.RegisterBuilder(ServiceRPCServer, func(c *Container) (interface{}, error) {
		svc, err := Resolve[*service.Service](c, ServiceLedger)
		if err != nil {
			return nil, err
		}
		return rpc.NewServer(&rpc_types.ServiceContainer{Ledger: svc}, p.rpcConfig()), nil
	})

	p.container.RegisterBuilder(ServiceWebSocket, func(c *Container) (interface{}, error) {
		server, err := Resolve[*rpc.Server](c, ServiceRPCServer)
		if err != nil {
			return nil, err
		}
		svc, err := Resolve[*service.Service](c, ServiceLedger)
		if err != nil {
			return nil, err
		}
		publisher, err := Resolve[*service.EventPublisher](c, ServiceEventPublisher)
		if err != nil {
			return nil, err
		}
		metrics, err := Resolve[*telemetry.Metrics](c, ServiceMetrics)
		if err != nil {
			return nil, err
		}
		return rpc.NewWebSocketServer(&rpc_types.ServiceContainer{Ledger: svc}, server.Registry(), publisher, metrics, p.rpcConfig()), nil
	})

	p.container.RegisterBuilder(ServiceHTTPHandler, func(c *Container) (interface{}, error) {
		server, err := Resolve[*rpc.Server](c, ServiceRPCServer)
		if err != nil {
			return nil, err
		}
		ws, err := Resolve[*rpc.WebSocketServer](c, ServiceWebSocket)
		if err != nil {
			return nil, err
		}
		svc, err := Resolve[*service.Service](c, ServiceLedger)
		if err != nil {
			return nil, err
		}
		mux := rpc.MuxConfig{
			RPC:       server,
			WebSocket: ws,
			Health: func(ctx context.Context) error {
				_, err := svc.GetServerInfo(ctx)
				return err
			},
		}
		if p.config.Server.Metrics {
			metrics, err := Resolve[*telemetry.Metrics](c, ServiceMetrics)
			if err != nil {
				return nil, err
			}
			mux.Metrics = promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
		}
		return http.Handler(rpc.NewMux(mux)), nil
	})
}

// Close releases everything the container built, websocket clients first.
func (p *Provider) Close() error {
	var errs []error
	if p.built(ServiceWebSocket) {
		ws, _ := Resolve[*rpc.WebSocketServer](p.container, ServiceWebSocket)
		ws.Close()
	}
	if p.built(ServiceLedger) {
		// The ledger owns the node DB and the journal.
		svc, _ := Resolve[*service.Service](p.container, ServiceLedger)
		return svc.Close()
	}
	if p.built(ServiceJournal) {
		if repo, _ := p.container.Get(ServiceJournal); repo != nil {
			if r, ok := repo.(relationaldb.Repository); ok && r != nil {
				errs = append(errs, r.Close())
			}
		}
	}
	if p.built(ServiceNodeDB) {
		db, _ := Resolve[database.DB](p.container, ServiceNodeDB)
		errs = append(errs, db.Close())
	}
	return errors.Join(errs...)
}

func (p *Provider) built(name string) bool {
	p.container.mu.RLock()
	defer p.container.mu.RUnlock()
	_, ok := p.container.services[name]
	return ok
}
