// Package host is the boundary between a host runtime and the cache. It keeps
// handles behind opaque string references, converts host arguments to terms,
// dispatches named operations and reports every outcome as a [Result].
//
//	reg := host.NewRegistry(slog.Default())
//	ref := reg.New(100).Value.(string)
//
//	reg.Call(ref, "put", "user:1", map[string]any{"name": "ada"})
//	res := reg.Call(ref, "get", "user:1")
//	if !res.OK() && res.Reason == host.ReasonLockFail {
//	    // retry later
//	}
package host

import (
	"log/slog"
	"math"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/termcache/core/cache"
	"github.com/codewandler/termcache/core/term"
	"github.com/codewandler/termcache/internal/codec"
)

type Registry struct {
	mu      sync.RWMutex
	handles map[string]*cache.Handle

	log   *slog.Logger
	opts  []cache.Option
	codec codec.Codec
}

// NewRegistry creates an empty registry. opts are applied to every cache it
// creates.
func NewRegistry(log *slog.Logger, opts ...cache.Option) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		handles: make(map[string]*cache.Handle),
		log:     log,
		opts:    opts,
		codec:   codec.JSONCodec{},
	}
}

func toCapacity(v any) (int, bool) {
	t, err := term.FromHost(v)
	if err != nil {
		return 0, false
	}
	switch c := t.(type) {
	case term.Int:
		if c < 0 || int64(c) > math.MaxInt {
			return 0, false
		}
		return int(c), true
	case term.Uint:
		if uint64(c) > math.MaxInt {
			return 0, false
		}
		return int(c), true
	}
	return 0, false
}

// New creates a cache and returns its reference as the result value.
func (r *Registry) New(capacity any) Result {
	n, valid := toCapacity(capacity)
	if !valid {
		return fail(ReasonInvalidCapacity)
	}

	ref, err := gonanoid.New()
	if err != nil {
		r.log.Error("generate reference", slog.Any("error", err))
		return fail(ReasonBadReference)
	}

	opts := append(append([]cache.Option{}, r.opts...), cache.WithLogger(r.log.With(slog.String("ref", ref))))
	h, err := cache.New(n, opts...)
	if err != nil {
		return fail(ReasonInvalidCapacity)
	}

	r.mu.Lock()
	r.handles[ref] = h
	r.mu.Unlock()

	return ok(ref)
}

// Handle returns a new reference to the cache behind ref. The caller must
// release it.
func (r *Registry) Handle(ref string) (*cache.Handle, bool) {
	r.mu.RLock()
	h, found := r.handles[ref]
	r.mu.RUnlock()
	if !found {
		return nil, false
	}
	c, err := h.Clone()
	if err != nil {
		return nil, false
	}
	return c, true
}

// Drop forgets ref. The cache itself goes away once every handle obtained
// through Handle has been released as well.
func (r *Registry) Drop(ref string) Result {
	r.mu.Lock()
	h, found := r.handles[ref]
	delete(r.handles, ref)
	r.mu.Unlock()

	if !found {
		return fail(ReasonBadReference)
	}
	h.Release()
	return ok(nil)
}

// Call runs op on the cache behind ref. Arguments are converted before the
// cache is touched, so a conversion failure never takes the lock.
func (r *Registry) Call(ref, op string, args ...any) Result {
	r.mu.RLock()
	h, found := r.handles[ref]
	r.mu.RUnlock()
	if !found {
		return fail(ReasonBadReference)
	}

	o, known := operations[op]
	if !known {
		return fail(ReasonUnknownOp)
	}
	if len(args) != o.arity {
		return fail(ReasonBadArity)
	}

	terms := make([]term.Term, len(args))
	for i, a := range args {
		t, err := term.FromHost(a)
		if err != nil {
			r.log.Debug("argument rejected",
				slog.String("op", op),
				slog.Int("arg", i),
				slog.Any("error", err),
			)
			return fail(ReasonUnsupportedType)
		}
		terms[i] = t
	}

	v, err := o.call(h, terms)
	if err != nil {
		return failFor(err)
	}
	return ok(v)
}

// CallJSON is Call with the arguments given as a JSON array. An empty body
// means no arguments.
func (r *Registry) CallJSON(ref, op string, rawArgs []byte) Result {
	var args []any
	if len(rawArgs) > 0 {
		if err := r.codec.Unmarshal(rawArgs, &args); err != nil {
			r.log.Debug("malformed arguments", slog.String("op", op), slog.Any("error", err))
			return fail(ReasonUnsupportedType)
		}
	}
	return r.Call(ref, op, args...)
}

// Close drops every reference held by the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[string]*cache.Handle)
	r.mu.Unlock()

	for _, h := range handles {
		h.Release()
	}
}
