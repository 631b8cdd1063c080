// Package dbtest holds a conformance suite shared by every database.DB backend.
package dbtest

import (
	"context"
	"testing"

	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises db against the database.DB contract. db must be empty.
func Run(t *testing.T, db database.DB) {
	t.Helper()
	ctx := context.Background()

	t.Run("ReadMissing", func(t *testing.T) {
		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("WriteReadDelete", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("k1"), []byte("v1")))
		got, err := db.Read(ctx, []byte("k1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Delete(ctx, []byte("k1")))
		_, err = db.Read(ctx, []byte("k1"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("b0"), []byte("old")))
		require.NoError(t, db.Batch(ctx, []database.BatchOperation{
			database.Put([]byte("b1"), []byte("one")),
			database.Put([]byte("b2"), []byte("two")),
			database.Del([]byte("b0")),
		}))

		_, err := db.Read(ctx, []byte("b0"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
		got, err := db.Read(ctx, []byte("b2"))
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		for _, k := range []string{"i1", "i2", "i3", "j1"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("val-"+k)))
		}

		it, err := db.Iterator(ctx, []byte("i"), []byte("i3"))
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(t, "val-"+string(it.Key()), string(it.Value()))
		}
		require.NoError(t, it.Error())
		assert.Equal(t, []string{"i1", "i2"}, keys)
	})
}
