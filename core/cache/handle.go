package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/codewandler/termcache/core/lru"
	"github.com/codewandler/termcache/core/term"
)

// shared is the state behind every clone of a Handle.
type shared struct {
	mu     sync.Mutex
	engine *lru.Engine // nil once the last reference is released
	refs   atomic.Int64

	name    string
	log     *slog.Logger
	metrics Metrics
}

// Handle is one reference to a shared engine. It is safe for concurrent use.
type Handle struct {
	s        *shared
	released atomic.Bool
}

// New creates an engine with the given capacity and returns the first
// reference to it.
func New(capacity int, opts ...Option) (*Handle, error) {
	o := &options{
		name:    "default",
		log:     slog.Default(),
		metrics: NopMetrics(),
	}
	for _, opt := range opts {
		opt(o)
	}

	engine, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("create cache %q: %w", o.name, err)
	}

	s := &shared{
		engine:  engine,
		name:    o.name,
		log:     o.log.With(slog.String("cache", o.name)),
		metrics: o.metrics,
	}
	s.refs.Store(1)
	s.metrics.Entries(s.name, 0)
	s.log.Info("cache created", slog.Int("capacity", capacity))

	return &Handle{s: s}, nil
}

// Clone returns a new reference to the same engine.
func (h *Handle) Clone() (*Handle, error) {
	if h.released.Load() {
		return nil, ErrReleased
	}
	// never revive a count that already dropped to zero
	for {
		n := h.s.refs.Load()
		if n <= 0 {
			return nil, ErrReleased
		}
		if h.s.refs.CompareAndSwap(n, n+1) {
			return &Handle{s: h.s}, nil
		}
	}
}

// Release drops this reference. Calling it more than once is a no-op. When
// the last reference goes, the engine is cleared and dropped; this waits for
// an in-flight operation to finish rather than failing.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.s.refs.Add(-1) > 0 {
		return
	}

	h.s.mu.Lock()
	h.s.engine.Clear()
	h.s.engine = nil
	h.s.mu.Unlock()

	h.s.metrics.Entries(h.s.name, 0)
	h.s.log.Info("cache destroyed")
}

// Guard is exclusive access to the engine obtained through Acquire. Terms
// read through the guard are not copied and must not be mutated.
type Guard struct {
	s      *shared
	engine *lru.Engine
	once   sync.Once
}

func (g *Guard) Engine() *lru.Engine { return g.engine }

// Release unlocks the engine. Only the first call has an effect.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.s.metrics.Entries(g.s.name, g.engine.Len())
		g.s.mu.Unlock()
	})
}

// Acquire takes the lock without blocking. The caller must Release the guard.
func (h *Handle) Acquire() (*Guard, error) {
	e, err := h.lock("acquire")
	if err != nil {
		return nil, err
	}
	return &Guard{s: h.s, engine: e}, nil
}

// lock try-locks the engine. On success the caller owns h.s.mu.
func (h *Handle) lock(op string) (*lru.Engine, error) {
	if h.released.Load() {
		return nil, ErrReleased
	}
	if !h.s.mu.TryLock() {
		h.s.metrics.LockContention(h.s.name, op)
		h.s.log.Debug("lock contention", slog.String("op", op))
		return nil, ErrLockContention
	}
	if h.s.engine == nil {
		h.s.mu.Unlock()
		return nil, ErrReleased
	}
	return h.s.engine, nil
}

func (h *Handle) do(op string, fn func(e *lru.Engine)) error {
	defer h.s.metrics.OperationDuration(h.s.name, op).ObserveDuration()

	e, err := h.lock(op)
	if err != nil {
		return err
	}
	defer h.s.mu.Unlock()

	fn(e)
	return nil
}

func (h *Handle) hitOrMiss(op string, ok bool) error {
	if !ok {
		h.s.metrics.Miss(h.s.name, op)
		return ErrNotFound
	}
	h.s.metrics.Hit(h.s.name, op)
	return nil
}

func checkTerms(ts ...term.Term) error {
	for _, t := range ts {
		if t == nil {
			return fmt.Errorf("%w: nil term", term.ErrUnsupportedType)
		}
	}
	return nil
}

// Put stores v under k. When a different entry had to make room, it is
// returned with evicted set.
func (h *Handle) Put(k, v term.Term) (out lru.Entry, evicted bool, err error) {
	if err = checkTerms(k, v); err != nil {
		return
	}
	k, v = term.Clone(k), term.Clone(v)

	err = h.do("put", func(e *lru.Engine) {
		out, evicted = e.Put(k, v)
		h.s.metrics.Entries(h.s.name, e.Len())
	})
	if evicted {
		h.s.metrics.Eviction(h.s.name)
	}
	return
}

// Get returns the value for k and marks k most recently used.
func (h *Handle) Get(k term.Term) (term.Term, error) {
	return h.lookup("get", k, (*lru.Engine).Get)
}

// Peek returns the value for k without changing recency.
func (h *Handle) Peek(k term.Term) (term.Term, error) {
	return h.lookup("peek", k, (*lru.Engine).Peek)
}

// Pop removes k and returns its value.
func (h *Handle) Pop(k term.Term) (term.Term, error) {
	return h.lookup("pop", k, (*lru.Engine).Pop)
}

func (h *Handle) lookup(op string, k term.Term, fn func(*lru.Engine, term.Term) (term.Term, bool)) (term.Term, error) {
	if err := checkTerms(k); err != nil {
		return nil, err
	}

	var (
		v  term.Term
		ok bool
	)
	err := h.do(op, func(e *lru.Engine) {
		v, ok = fn(e, k)
		if op == "pop" && ok {
			h.s.metrics.Entries(h.s.name, e.Len())
		}
	})
	if err != nil {
		return nil, err
	}
	if err = h.hitOrMiss(op, ok); err != nil {
		return nil, err
	}
	return term.Clone(v), nil
}

// PeekLRU returns the least recently used pair without changing recency.
func (h *Handle) PeekLRU() (lru.Entry, error) {
	return h.lruEntry("peek_lru", (*lru.Engine).PeekLRU)
}

// PopLRU removes and returns the least recently used pair.
func (h *Handle) PopLRU() (lru.Entry, error) {
	return h.lruEntry("pop_lru", (*lru.Engine).PopLRU)
}

func (h *Handle) lruEntry(op string, fn func(*lru.Engine) (lru.Entry, bool)) (lru.Entry, error) {
	var (
		ent lru.Entry
		ok  bool
	)
	err := h.do(op, func(e *lru.Engine) {
		ent, ok = fn(e)
		if op == "pop_lru" && ok {
			h.s.metrics.Entries(h.s.name, e.Len())
		}
	})
	if err != nil {
		return lru.Entry{}, err
	}
	if err = h.hitOrMiss(op, ok); err != nil {
		return lru.Entry{}, err
	}
	return cloneEntry(ent), nil
}

func (h *Handle) Contains(k term.Term) (ok bool, err error) {
	if err = checkTerms(k); err != nil {
		return
	}
	err = h.do("contains", func(e *lru.Engine) { ok = e.Contains(k) })
	return
}

func (h *Handle) Len() (n int, err error) {
	err = h.do("len", func(e *lru.Engine) { n = e.Len() })
	return
}

func (h *Handle) IsEmpty() (empty bool, err error) {
	err = h.do("is_empty", func(e *lru.Engine) { empty = e.IsEmpty() })
	return
}

func (h *Handle) Cap() (n int, err error) {
	err = h.do("cap", func(e *lru.Engine) { n = e.Cap() })
	return
}

// Clear removes every entry.
func (h *Handle) Clear() error {
	return h.do("clear", func(e *lru.Engine) {
		e.Clear()
		h.s.metrics.Entries(h.s.name, 0)
	})
}

// Keys returns every key, most recently used first.
func (h *Handle) Keys() (keys []term.Term, err error) {
	err = h.do("keys", func(e *lru.Engine) { keys = e.Keys() })
	for i := range keys {
		keys[i] = term.Clone(keys[i])
	}
	return
}

// Values returns every value in the same order as Keys.
func (h *Handle) Values() (values []term.Term, err error) {
	err = h.do("values", func(e *lru.Engine) { values = e.Values() })
	for i := range values {
		values[i] = term.Clone(values[i])
	}
	return
}

// ToList returns every pair in the same order as Keys.
func (h *Handle) ToList() (pairs []lru.Entry, err error) {
	err = h.do("to_list", func(e *lru.Engine) { pairs = e.ToList() })
	for i := range pairs {
		pairs[i] = cloneEntry(pairs[i])
	}
	return
}

func cloneEntry(e lru.Entry) lru.Entry {
	return lru.Entry{Key: term.Clone(e.Key), Value: term.Clone(e.Value)}
}
