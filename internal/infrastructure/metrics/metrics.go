// Package metrics exposes Prometheus collectors for the HTTP layer, the
// balance register and the connection pool.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storagemanager/internal/infrastructure/storage/postgres"
)

// Config holds metrics configuration.
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() Config {
	return Config{Namespace: "storagemanager"}
}

// Metrics holds every collector of the service on a private registry.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Balance register metrics
	LedgerMutations  *prometheus.CounterVec
	LedgerRejections *prometheus.CounterVec

	// Catalog and document lifecycle
	EntityEvents *prometheus.CounterVec
}

// New creates a Metrics instance with Go and process collectors registered.
func New(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{namespace: cfg.Namespace, registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	m.LedgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "ledger_mutations_total",
			Help:      "Balance rows created, increased, reduced or deleted",
		},
		[]string{"op"},
	)

	m.LedgerRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "ledger_rejections_total",
			Help:      "Balance reductions refused by the register",
		},
		[]string{"reason"},
	)

	m.EntityEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "entity_events_total",
			Help:      "Committed catalog and document changes",
		},
		[]string{"entity", "event"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.LedgerMutations,
		m.LedgerRejections,
		m.EntityEvents,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one finished request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// BalanceChanged implements balance.Observer.
func (m *Metrics) BalanceChanged(op string) {
	m.LedgerMutations.WithLabelValues(op).Inc()
}

// BalanceRejected implements balance.Observer.
func (m *Metrics) BalanceRejected(code string) {
	m.LedgerRejections.WithLabelValues(code).Inc()
}

// EntityChanged counts a committed create, update or delete.
func (m *Metrics) EntityChanged(entity, event string) {
	m.EntityEvents.WithLabelValues(entity, event).Inc()
}

// RegisterPool exposes connection pool statistics as gauges read at scrape time.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) {
	gauge := func(name, help string, value func(postgres.PoolStats) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: "db_pool", Name: name, Help: help},
			func() float64 { return float64(value(postgres.GetPoolStats(pool))) },
		)
	}

	m.registry.MustRegister(
		gauge("total_conns", "Total connections in the pool", func(s postgres.PoolStats) int32 { return s.TotalConns }),
		gauge("idle_conns", "Idle connections in the pool", func(s postgres.PoolStats) int32 { return s.IdleConns }),
		gauge("acquired_conns", "Connections currently acquired", func(s postgres.PoolStats) int32 { return s.AcquiredConns }),
		gauge("max_conns", "Maximum pool size", func(s postgres.PoolStats) int32 { return s.MaxConns }),
	)
}
