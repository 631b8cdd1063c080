package service

import (
	"context"
	"testing"

	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherFanOut(t *testing.T) {
	p := NewEventPublisher()
	a := p.Subscribe(2)
	b := p.Subscribe(2)
	require.True(t, p.HasSubscribers())

	require.NoError(t, p.Append(context.Background(), &tx.Record{TxID: [32]byte{0xAB}, Type: tx.TypeEventJoin, Sequence: 7}))

	for _, sub := range []*Subscription{a, b} {
		ev := <-sub.C
		assert.Equal(t, tx.TypeEventJoin, ev.Type)
		assert.Equal(t, uint32(7), ev.Sequence)
		assert.Equal(t, "AB", ev.TxID[:2])
	}
}

func TestPublisherDropsSlowSubscriber(t *testing.T) {
	p := NewEventPublisher()
	var drops int
	p.OnDrop = func() { drops++ }

	slow := p.Subscribe(1)
	fast := p.Subscribe(4)

	p.PublishTransaction(TransactionEvent{Sequence: 1})
	p.PublishTransaction(TransactionEvent{Sequence: 2})

	assert.True(t, slow.Dropped())
	assert.False(t, fast.Dropped())
	assert.Equal(t, 1, drops)

	// The queued event is still delivered before the close.
	ev, ok := <-slow.C
	require.True(t, ok)
	assert.Equal(t, uint32(1), ev.Sequence)
	_, ok = <-slow.C
	assert.False(t, ok)

	assert.Len(t, fast.C, 2)
}

func TestSubscriptionClose(t *testing.T) {
	p := NewEventPublisher()
	sub := p.Subscribe(1)
	sub.Close()
	sub.Close()

	_, ok := <-sub.C
	assert.False(t, ok)
	assert.False(t, sub.Dropped())
	assert.False(t, p.HasSubscribers())

	// Publishing with no subscribers is a no-op.
	p.PublishTransaction(TransactionEvent{})
}

func TestPublisherClose(t *testing.T) {
	p := NewEventPublisher()
	sub := p.Subscribe(1)
	p.Close()

	_, ok := <-sub.C
	assert.False(t, ok)

	late := p.Subscribe(1)
	_, ok = <-late.C
	assert.False(t, ok)
	late.Close()
}
