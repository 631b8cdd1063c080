// Package cli implements the ticketd command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/LeJamon/goTicketd/internal/config"
	"github.com/LeJamon/goTicketd/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	debug      bool
	verbose    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ticketd",
	Short: "ticketd - event ticketing and reward escrow ledger",
	Long: `ticketd runs a single-node ledger for communities, events and attendees.
Attendees lock a commitment fee when they join an event, receive a numbered
credential, and reclaim the fee plus an optional token reward once an event
authority verifies their attendance.`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

func logFlags() logging.Flags {
	return logging.Flags{Debug: debug, Verbose: verbose, Quiet: quiet}
}

// loadConfig reads --conf (defaults and TICKETD_ environment variables when
// empty) and installs the process logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger, err := logging.Init(cfg.Log, logFlags())
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger, nil
}
