package redis

import (
	"context"
	"testing"

	"github.com/LeJamon/goTicketd/internal/storage/database"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB() (*DB, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	return New(client, "ticketd"), mock
}

func TestRead(t *testing.T) {
	db, mock := setupTestDB()
	defer mock.ClearExpect()
	ctx := context.Background()

	mock.ExpectGet("ticketd:v:hit").SetVal("value")
	mock.ExpectGet("ticketd:v:miss").RedisNil()

	got, err := db.Read(ctx, []byte("hit"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	_, err = db.Read(ctx, []byte("miss"))
	assert.ErrorIs(t, err, database.ErrKeyNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchUsesTransaction(t *testing.T) {
	db, mock := setupTestDB()
	defer mock.ClearExpect()

	mock.ExpectTxPipeline()
	mock.ExpectSet("ticketd:v:a", []byte("1"), 0).SetVal("OK")
	mock.ExpectZAdd("ticketd:idx", goredis.Z{Score: 0, Member: "a"}).SetVal(1)
	mock.ExpectDel("ticketd:v:b").SetVal(1)
	mock.ExpectZRem("ticketd:idx", "b").SetVal(1)
	mock.ExpectTxPipelineExec()

	err := db.Batch(context.Background(), []database.BatchOperation{
		database.Put([]byte("a"), []byte("1")),
		database.Del([]byte("b")),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIteratorRange(t *testing.T) {
	db, mock := setupTestDB()
	defer mock.ClearExpect()

	mock.ExpectZRangeByLex("ticketd:idx", &goredis.ZRangeBy{Min: "[i", Max: "(i3"}).
		SetVal([]string{"i1", "i2"})
	mock.ExpectMGet("ticketd:v:i1", "ticketd:v:i2").SetVal([]interface{}{"v1", "v2"})

	it, err := db.Iterator(context.Background(), []byte("i"), []byte("i3"))
	require.NoError(t, err)
	defer it.Close()

	var keys, values []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	assert.Equal(t, []string{"i1", "i2"}, keys)
	assert.Equal(t, []string{"v1", "v2"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClosedDB(t *testing.T) {
	db, _ := setupTestDB()
	require.NoError(t, db.Close())
	_, err := db.Read(context.Background(), []byte("k"))
	assert.ErrorIs(t, err, database.ErrDBClosed)
}
