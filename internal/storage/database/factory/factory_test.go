package factory

import (
	"context"
	"testing"

	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/LeJamon/goTicketd/internal/storage/database/compressed"
	"github.com/LeJamon/goTicketd/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &memory.DB{}, db)

	for _, backend := range []string{"pebble", "leveldb"} {
		t.Run(backend, func(t *testing.T) {
			db, err := Open(ctx, Config{Backend: backend, Path: t.TempDir()})
			require.NoError(t, err)
			require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
			got, err := db.Read(ctx, []byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)
			require.NoError(t, db.Close())
		})
	}
}

func TestOpenCompressed(t *testing.T) {
	db, err := Open(context.Background(), Config{Backend: "memory", Compression: "lz4"})
	require.NoError(t, err)
	assert.IsType(t, &compressed.DB{}, db)

	_, err = Open(context.Background(), Config{Backend: "memory", Compression: "brotli"})
	assert.Error(t, err)
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "cassandra"})
	assert.ErrorIs(t, err, database.ErrUnknownBackend)
}
