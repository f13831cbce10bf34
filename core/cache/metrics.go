package cache

import "github.com/codewandler/termcache/core/metrics"

// Metrics defines the metrics interface for cache handles. Implementations
// must be safe for concurrent use.
type Metrics interface {
	OperationDuration(cache, op string) metrics.Timer
	Hit(cache, op string)
	Miss(cache, op string)
	Eviction(cache string)
	LockContention(cache, op string)
	Entries(cache string, n int)
}

type nopMetrics struct{}

func (nopMetrics) OperationDuration(string, string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) Hit(string, string)                             {}
func (nopMetrics) Miss(string, string)                            {}
func (nopMetrics) Eviction(string)                                {}
func (nopMetrics) LockContention(string, string)                  {}
func (nopMetrics) Entries(string, int)                            {}

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
