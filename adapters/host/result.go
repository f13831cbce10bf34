package host

import (
	"errors"

	"github.com/codewandler/termcache/core/cache"
	"github.com/codewandler/termcache/core/lru"
	"github.com/codewandler/termcache/core/term"
)

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Reason tells the caller why a call failed. Operations on a live handle fail
// with exactly one of ReasonUnsupportedType, ReasonNotFound or
// ReasonLockFail; the rest come from dispatch itself.
type Reason string

const (
	ReasonUnsupportedType Reason = "unsupported_type"
	ReasonNotFound        Reason = "not_found"
	ReasonLockFail        Reason = "lock_fail"

	ReasonBadReference    Reason = "bad_reference"
	ReasonUnknownOp       Reason = "unknown_op"
	ReasonBadArity        Reason = "bad_arity"
	ReasonInvalidCapacity Reason = "invalid_capacity"
)

type Result struct {
	Status Status `json:"status"`
	Value  any    `json:"value,omitempty"`
	Reason Reason `json:"reason,omitempty"`
}

func (r Result) OK() bool { return r.Status == StatusOK }

func ok(v any) Result { return Result{Status: StatusOK, Value: v} }

func fail(r Reason) Result { return Result{Status: StatusError, Reason: r} }

func failFor(err error) Result {
	switch {
	case errors.Is(err, term.ErrUnsupportedType):
		return fail(ReasonUnsupportedType)
	case errors.Is(err, cache.ErrNotFound):
		return fail(ReasonNotFound)
	case errors.Is(err, cache.ErrLockContention):
		return fail(ReasonLockFail)
	default:
		// ErrReleased: the reference was dropped while the call was in flight
		return fail(ReasonBadReference)
	}
}

// pair renders an entry as a two-element list.
func pair(e lru.Entry) []any {
	return []any{term.ToHost(e.Key), term.ToHost(e.Value)}
}

func hostAll(ts []term.Term) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = term.ToHost(t)
	}
	return out
}
