package relationaldb_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/genesis"
	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/payment"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/LeJamon/goTicketd/internal/storage/database/memory"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb"
	"github.com/LeJamon/goTicketd/internal/storage/relationaldb/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestJournalRecordsEngineTransactions(t *testing.T) {
	ctx := context.Background()

	repo, err := sqlite.Open(ctx, relationaldb.SQLiteConfig(":memory:"))
	require.NoError(t, err)
	defer repo.Close()

	store, err := state.New(memory.New(), state.Config{})
	require.NoError(t, err)
	defer store.Close()
	_, err = genesis.Create(ctx, store, genesis.DefaultConfig())
	require.NoError(t, err)
	master, err := genesis.MasterKeyPair(genesis.DefaultConfig())
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := tx.NewEngine(store, tx.EngineConfig{
		Clock:   fixedClock{now},
		Journal: relationaldb.NewJournal(repo),
	})

	from := sle.AccountID(master.AccountID()).String()
	to := sle.AccountID{0x42}.String()
	for seq := uint32(1); seq <= 2; seq++ {
		p := payment.NewPayment(from, to, 1000)
		p.Sequence = seq
		require.NoError(t, tx.Sign(p, master))
		res := engine.Apply(ctx, p)
		require.True(t, res.Applied, res.Message)
	}

	// Failures are not journaled.
	bad := payment.NewPayment(from, to, 1000)
	bad.Sequence = 1
	require.NoError(t, tx.Sign(bad, master))
	require.False(t, engine.Apply(ctx, bad).Applied)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	entries, err := repo.ListByAccount(ctx, from, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	latest := entries[0]
	assert.Equal(t, uint32(2), latest.Sequence)
	assert.Equal(t, "Payment", latest.TxType)
	assert.Equal(t, "tesSUCCESS", latest.Result)
	assert.Equal(t, 0, latest.Code)
	assert.Equal(t, now, latest.AppliedAt)

	decoded, err := tx.FromJSON(latest.RawTxn)
	require.NoError(t, err)
	assert.Equal(t, tx.TypePayment, decoded.TxType())

	var meta tx.Metadata
	require.NoError(t, json.Unmarshal(latest.TxnMeta, &meta))
	assert.NotEmpty(t, meta.AffectedNodes)
}

func TestEntryFromRecordWithoutMetadata(t *testing.T) {
	p := payment.NewPayment(sle.AccountID{1}.String(), sle.AccountID{2}.String(), 5)
	p.Sequence = 3
	entry, err := relationaldb.EntryFromRecord(&tx.Record{
		TxID:     [32]byte{0xAA},
		Type:     tx.TypePayment,
		Account:  p.Account,
		Sequence: 3,
		Result:   tx.TesSUCCESS,
		Tx:       p,
	})
	require.NoError(t, err)
	assert.Equal(t, relationaldb.Hash{0xAA}, entry.Hash)
	assert.Nil(t, entry.TxnMeta)
	assert.Contains(t, string(entry.RawTxn), `"Sequence":3`)
}
