package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/service"
	"github.com/LeJamon/goTicketd/internal/di"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// Server flags
	port     int
	bindAddr string
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ticketd daemon",
	Long: `Start the ticketd node, which provides:
- HTTP JSON-RPC on / and /rpc
- a websocket transaction stream on /ws
- /health and, when enabled, Prometheus /metrics

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.RunE = runServer

	serverCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides [server] port)")
	serverCmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind to (overrides [server] bind)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if bindAddr != "" {
		cfg.Server.Bind = bindAddr
	}
	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container := di.New()
	provider := di.NewProvider(ctx, container, cfg, logger)
	if err := provider.RegisterAll(); err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	ledger, err := di.Resolve[*service.Service](container, di.ServiceLedger)
	if err != nil {
		return err
	}
	if err := ledger.Start(ctx); err != nil {
		return err
	}
	handler, err := di.Resolve[http.Handler](container, di.ServiceHTTPHandler)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", srv.Addr).
			Str("node_db", cfg.NodeDB.Type).
			Bool("journal", cfg.Journal.Enabled).
			Msg("ticketd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
