// Package telemetry exports engine and store metrics to Prometheus.
package telemetry

import (
	"context"
	"time"

	"github.com/LeJamon/goTicketd/internal/core/ledger/state"
	"github.com/LeJamon/goTicketd/internal/core/tx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ticketd"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	transactions *prometheus.CounterVec
	applyLatency *prometheus.HistogramVec
	journaled    prometheus.Counter
	subscribers  prometheus.Gauge
	dropped      prometheus.Counter
}

var (
	_ tx.Observer = (*Metrics)(nil)
	_ tx.Journal  = (*Metrics)(nil)
)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "transactions_total",
			Help:      "Transactions processed, by type and result.",
		}, []string{"tx_type", "result"}),
		applyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "apply_seconds",
			Help:      "Time spent applying a transaction, including lock waits.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"tx_type"}),
		journaled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "applied_total",
			Help:      "Transactions committed to the ledger.",
		}),
		subscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "subscribers",
			Help:      "Connected websocket subscribers.",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "dropped_subscribers_total",
			Help:      "Subscribers disconnected for falling behind.",
		}),
	}
}

// Registry is the registry to serve on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe implements tx.Observer.
func (m *Metrics) Observe(t tx.Type, result tx.Result, elapsed time.Duration) {
	m.transactions.WithLabelValues(t.String(), result.String()).Inc()
	m.applyLatency.WithLabelValues(t.String()).Observe(elapsed.Seconds())
}

// Append implements tx.Journal by counting committed transactions.
func (m *Metrics) Append(_ context.Context, _ *tx.Record) error {
	m.journaled.Inc()
	return nil
}

func (m *Metrics) SubscriberConnected()    { m.subscribers.Inc() }
func (m *Metrics) SubscriberDisconnected() { m.subscribers.Dec() }
func (m *Metrics) SubscriberDropped()      { m.dropped.Inc() }

// RegisterStore exports the entry cache statistics of store.
func (m *Metrics) RegisterStore(store *state.Store) {
	factory := promauto.With(m.registry)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "state",
		Name:      "cache_hits_total",
		Help:      "Entry cache hits.",
	}, func() float64 { return float64(store.Stats().Hits) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "state",
		Name:      "cache_misses_total",
		Help:      "Entry cache misses.",
	}, func() float64 { return float64(store.Stats().Misses) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "state",
		Name:      "cache_entries",
		Help:      "Entries held in the cache.",
	}, func() float64 { return float64(store.Stats().Size) })
}
