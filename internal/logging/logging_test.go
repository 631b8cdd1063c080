package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/LeJamon/goTicketd/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LogConfig
		flags Flags
		want  zerolog.Level
	}{
		{name: "configured", cfg: config.LogConfig{Level: "error"}, want: zerolog.ErrorLevel},
		{name: "empty", want: zerolog.InfoLevel},
		{name: "debug flag", cfg: config.LogConfig{Level: "error"}, flags: Flags{Debug: true, Quiet: true}, want: zerolog.DebugLevel},
		{name: "verbose flag", flags: Flags{Verbose: true}, want: zerolog.TraceLevel},
		{name: "quiet flag", cfg: config.LogConfig{Level: "debug"}, flags: Flags{Quiet: true}, want: zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Level(tt.cfg, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Level(config.LogConfig{Level: "loud"}, Flags{})
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "info", Format: "json"}, Flags{})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("tx_type", "EventJoin").Msg("applied")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "applied", line["message"])
	assert.Equal(t, "EventJoin", line["tx_type"])
	assert.Equal(t, "ticketd", line["service"])
	assert.Contains(t, line, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "info", Format: "console"}, Flags{})
	require.NoError(t, err)

	logger.Info().Msg("listening")
	assert.Contains(t, buf.String(), "listening")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
