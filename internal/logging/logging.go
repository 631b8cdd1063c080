// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/LeJamon/goTicketd/internal/config"
	"github.com/rs/zerolog"
)

// Flags are the command line overrides of the [log] section.
type Flags struct {
	Debug   bool
	Verbose bool
	Quiet   bool
}

// Level resolves the effective level. --debug wins over --verbose, which
// wins over --quiet.
func Level(cfg config.LogConfig, flags Flags) (zerolog.Level, error) {
	switch {
	case flags.Debug:
		return zerolog.DebugLevel, nil
	case flags.Verbose:
		return zerolog.TraceLevel, nil
	case flags.Quiet:
		return zerolog.WarnLevel, nil
	}
	if cfg.Level == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// New returns a logger writing to w in the configured format.
func New(w io.Writer, cfg config.LogConfig, flags Flags) (zerolog.Logger, error) {
	level, err := Level(cfg, flags)
	if err != nil {
		return zerolog.Nop(), err
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "ticketd").Logger(), nil
}

// Init builds the logger on stderr and installs it as the zerolog default
// context logger.
func Init(cfg config.LogConfig, flags Flags) (zerolog.Logger, error) {
	logger, err := New(os.Stderr, cfg, flags)
	if err != nil {
		return logger, err
	}
	zerolog.DefaultContextLogger = &logger
	return logger, nil
}
