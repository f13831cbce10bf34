package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/termcache/core/cache"
	"github.com/codewandler/termcache/core/metrics"
)

// cacheMetrics implements cache.Metrics using Prometheus.
type cacheMetrics struct {
	opDuration *prometheus.HistogramVec
	hits       *prometheus.CounterVec
	misses     *prometheus.CounterVec
	evictions  *prometheus.CounterVec
	contention *prometheus.CounterVec
	entries    *prometheus.GaugeVec
}

// NewCacheMetrics creates a new Prometheus implementation of cache.Metrics.
func NewCacheMetrics(reg prometheus.Registerer) cache.Metrics {
	m := &cacheMetrics{
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "termcache_operation_duration_seconds",
			Help:    "Cache operation latency in seconds, including failed lock attempts",
			Buckets: defaultBuckets,
		}, []string{"cache", "op"}),

		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "termcache_hits_total",
			Help: "Total number of lookups that found an entry",
		}, []string{"cache", "op"}),

		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "termcache_misses_total",
			Help: "Total number of lookups that found no entry",
		}, []string{"cache", "op"}),

		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "termcache_evictions_total",
			Help: "Total number of entries evicted to make room",
		}, []string{"cache"}),

		contention: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "termcache_lock_contention_total",
			Help: "Total number of operations rejected because the lock was held",
		}, []string{"cache", "op"}),

		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "termcache_entries",
			Help: "Current number of entries",
		}, []string{"cache"}),
	}

	reg.MustRegister(
		m.opDuration,
		m.hits,
		m.misses,
		m.evictions,
		m.contention,
		m.entries,
	)

	return m
}

func (m *cacheMetrics) OperationDuration(name, op string) metrics.Timer {
	return newTimer(m.opDuration.WithLabelValues(name, op))
}

func (m *cacheMetrics) Hit(name, op string) {
	m.hits.WithLabelValues(name, op).Inc()
}

func (m *cacheMetrics) Miss(name, op string) {
	m.misses.WithLabelValues(name, op).Inc()
}

func (m *cacheMetrics) Eviction(name string) {
	m.evictions.WithLabelValues(name).Inc()
}

func (m *cacheMetrics) LockContention(name, op string) {
	m.contention.WithLabelValues(name, op).Inc()
}

func (m *cacheMetrics) Entries(name string, n int) {
	m.entries.WithLabelValues(name).Set(float64(n))
}

var _ cache.Metrics = (*cacheMetrics)(nil)
