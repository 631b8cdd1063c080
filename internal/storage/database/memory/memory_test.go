package memory

import (
	"context"
	"testing"

	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/LeJamon/goTicketd/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func TestMemoryDB(t *testing.T) {
	dbtest.Run(t, New())
}

func TestMemoryDBClosed(t *testing.T) {
	db := New()
	require.NoError(t, db.Close())
	_, err := db.Read(context.Background(), []byte("k"))
	require.ErrorIs(t, err, database.ErrDBClosed)
}

func TestMemoryDBRejectsUnknownBatchOp(t *testing.T) {
	db := New()
	err := db.Batch(context.Background(), []database.BatchOperation{
		database.Put([]byte("a"), []byte("1")),
		{Type: database.BatchOpType(9), Key: []byte("b")},
	})
	require.Error(t, err)
	require.Equal(t, 0, db.Len())
}
