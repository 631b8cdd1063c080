package service

import (
	"context"
	"sync"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goTicketd/internal/core/tx"
)

// TransactionEvent is what subscribers receive for every applied
// transaction.
type TransactionEvent struct {
	TxID      string
	Type      tx.Type
	Account   string
	Sequence  uint32
	Result    tx.Result
	AppliedAt time.Time
	Tx        tx.Transaction
	Metadata  *tx.Metadata
}

// Subscription is a subscriber's queue. C is closed when the subscriber is
// dropped or unsubscribes.
type Subscription struct {
	C <-chan TransactionEvent

	ch        chan TransactionEvent
	publisher *EventPublisher
	dropped   bool
}

// Dropped reports whether the publisher closed C because the subscriber
// fell behind.
func (s *Subscription) Dropped() bool {
	s.publisher.mu.Lock()
	defer s.publisher.mu.Unlock()
	return s.dropped
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.publisher.remove(s)
}

// EventPublisher fans applied transactions out to subscribers. A subscriber
// whose queue is full is dropped rather than blocking the engine.
type EventPublisher struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool

	// OnDrop is called, outside the lock, for each dropped subscriber.
	OnDrop func()
}

var _ tx.Journal = (*EventPublisher)(nil)

// NewEventPublisher creates a new event publisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a subscriber with a queue of buffer events.
func (p *EventPublisher) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan TransactionEvent, buffer)
	sub := &Subscription{C: ch, ch: ch, publisher: p}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(ch)
		return sub
	}
	p.subs[sub] = struct{}{}
	return sub
}

// HasSubscribers returns true if there are any subscribers.
func (p *EventPublisher) HasSubscribers() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs) > 0
}

// Append implements tx.Journal.
func (p *EventPublisher) Append(_ context.Context, rec *tx.Record) error {
	p.PublishTransaction(TransactionEvent{
		TxID:      keylet.EncodeKey(rec.TxID),
		Type:      rec.Type,
		Account:   rec.Account,
		Sequence:  rec.Sequence,
		Result:    rec.Result,
		AppliedAt: rec.AppliedAt,
		Tx:        rec.Tx,
		Metadata:  rec.Metadata,
	})
	return nil
}

// PublishTransaction delivers ev to every subscriber without blocking.
func (p *EventPublisher) PublishTransaction(ev TransactionEvent) {
	var dropped int

	p.mu.Lock()
	for sub := range p.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped = true
			delete(p.subs, sub)
			close(sub.ch)
			dropped++
		}
	}
	onDrop := p.OnDrop
	p.mu.Unlock()

	if onDrop != nil {
		for i := 0; i < dropped; i++ {
			onDrop()
		}
	}
}

func (p *EventPublisher) remove(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subs[sub]; !ok {
		return
	}
	delete(p.subs, sub)
	close(sub.ch)
}

// Close disconnects every subscriber.
func (p *EventPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for sub := range p.subs {
		delete(p.subs, sub)
		close(sub.ch)
	}
}
