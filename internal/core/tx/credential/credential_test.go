package credential

import (
	"context"
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/LeJamon/goTicketd/internal/core/tx/sle"
	"github.com/stretchr/testify/require"
)

type mapReader map[[32]byte][]byte

func (m mapReader) Get(_ context.Context, key [32]byte) ([]byte, error) {
	return m[key], nil
}

var event = sle.Hash256{5}

func newContext(t *testing.T, withCollection bool) *tx.ApplyContext {
	t.Helper()
	base := mapReader{}
	if withCollection {
		data, err := sle.SerializeCollection(&sle.Collection{Event: event, Authority: sle.AccountID{1}})
		require.NoError(t, err)
		base[keylet.Collection(event).Key] = data
	}
	return &tx.ApplyContext{View: tx.NewApplyStateTable(context.Background(), base)}
}

func collection(t *testing.T, ctx *tx.ApplyContext) *sle.Collection {
	t.Helper()
	c, err := sle.ReadCollection(ctx.View, event)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestIssueAndScan(t *testing.T) {
	ctx := newContext(t, true)
	owner := sle.AccountID{2}

	k, r := Issue(ctx, event, 1, owner)
	require.Equal(t, tx.TesSUCCESS, r)
	require.Equal(t, Keylet(event, 1), k)
	require.Equal(t, uint32(1), collection(t, ctx).Minted)

	cred, r := Load(ctx, event, 1)
	require.Equal(t, tx.TesSUCCESS, r)
	require.Equal(t, owner, cred.Owner)
	require.Equal(t, keylet.Collection(event).Key, [32]byte(cred.Collection))

	require.Equal(t, tx.TesSUCCESS, Scan(ctx, event, cred))
	require.Equal(t, tx.TecALREADY_SCANNED, Scan(ctx, event, cred))
	require.Equal(t, uint32(1), collection(t, ctx).Scanned)

	reloaded, _ := Load(ctx, event, 1)
	require.True(t, reloaded.Scanned)
}

func TestIssueRejectsDuplicateSequence(t *testing.T) {
	ctx := newContext(t, true)
	_, r := Issue(ctx, event, 1, sle.AccountID{2})
	require.Equal(t, tx.TesSUCCESS, r)

	_, r = Issue(ctx, event, 1, sle.AccountID{3})
	require.Equal(t, tx.TecDUPLICATE, r)
}

func TestFreezeCountsOnce(t *testing.T) {
	ctx := newContext(t, true)
	_, r := Issue(ctx, event, 1, sle.AccountID{2})
	require.Equal(t, tx.TesSUCCESS, r)
	cred, _ := Load(ctx, event, 1)

	require.Equal(t, tx.TesSUCCESS, Freeze(ctx, event, cred))
	require.Equal(t, tx.TesSUCCESS, Freeze(ctx, event, cred))
	require.Equal(t, uint32(1), collection(t, ctx).Frozen)
}

func TestMissingRecordsAreInternal(t *testing.T) {
	ctx := newContext(t, false)
	_, r := Issue(ctx, event, 1, sle.AccountID{2})
	require.Equal(t, tx.TecINTERNAL, r)

	_, r = Load(ctx, event, 9)
	require.Equal(t, tx.TecINTERNAL, r)
}

func TestKeyletsAreDistinctPerSequence(t *testing.T) {
	require.NotEqual(t, Keylet(event, 1), Keylet(event, 2))
	require.NotEqual(t, Keylet(event, 1), Keylet(sle.Hash256{6}, 1))
}
