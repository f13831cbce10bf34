// Package cache shares one [lru.Engine] between concurrent callers.
//
// A [Handle] owns the engine together with a mutex that is only ever taken
// with TryLock. An operation that finds the lock held fails at once with
// [ErrLockContention] instead of waiting; retrying is up to the caller.
//
//	h, err := cache.New(1000, cache.WithName("sessions"))
//	if err != nil {
//	    return err
//	}
//	defer h.Release()
//
//	_, _, err = h.Put(term.String("user:1"), term.Int(42))
//	if errors.Is(err, cache.ErrLockContention) {
//	    // try again later
//	}
//
//	v, err := h.Get(term.String("user:1"))
//	if errors.Is(err, cache.ErrNotFound) {
//	    // miss
//	}
//
// # Sharing
//
// Every operation takes and drops the lock around exactly one engine call,
// so successful operations are serialised in some total order and the engine
// never sees two of them interleaved.
//
// [Handle.Clone] returns another reference to the same engine. The engine is
// dropped once every reference has called [Handle.Release].
//
// # Values
//
// Keys and values are deep-copied on the way in and on the way out. Mutating
// a term after Put, or a term returned by Get, never changes cache state.
//
// # Metrics
//
// Pass [WithMetrics] to record operation latency, hits, misses, evictions and
// lock contention. See adapters/prometheus for a Prometheus implementation.
package cache
