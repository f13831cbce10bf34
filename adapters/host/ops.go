package host

import (
	"github.com/codewandler/termcache/core/cache"
	"github.com/codewandler/termcache/core/term"
)

type operation struct {
	arity int
	call  func(h *cache.Handle, args []term.Term) (any, error)
}

var operations = map[string]operation{
	"put": {2, func(h *cache.Handle, a []term.Term) (any, error) {
		out, evicted, err := h.Put(a[0], a[1])
		if err != nil || !evicted {
			return nil, err
		}
		return pair(out), nil
	}},
	"get": {1, func(h *cache.Handle, a []term.Term) (any, error) {
		v, err := h.Get(a[0])
		return term.ToHost(v), err
	}},
	"peek": {1, func(h *cache.Handle, a []term.Term) (any, error) {
		v, err := h.Peek(a[0])
		return term.ToHost(v), err
	}},
	"peek_lru": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		e, err := h.PeekLRU()
		if err != nil {
			return nil, err
		}
		return pair(e), nil
	}},
	"contains": {1, func(h *cache.Handle, a []term.Term) (any, error) {
		return h.Contains(a[0])
	}},
	"pop": {1, func(h *cache.Handle, a []term.Term) (any, error) {
		v, err := h.Pop(a[0])
		return term.ToHost(v), err
	}},
	"pop_lru": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		e, err := h.PopLRU()
		if err != nil {
			return nil, err
		}
		return pair(e), nil
	}},
	"len": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		return h.Len()
	}},
	"is_empty": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		return h.IsEmpty()
	}},
	"cap": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		return h.Cap()
	}},
	"clear": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		return nil, h.Clear()
	}},
	"keys": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		ks, err := h.Keys()
		if err != nil {
			return nil, err
		}
		return hostAll(ks), nil
	}},
	"values": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		vs, err := h.Values()
		if err != nil {
			return nil, err
		}
		return hostAll(vs), nil
	}},
	"to_list": {0, func(h *cache.Handle, _ []term.Term) (any, error) {
		es, err := h.ToList()
		if err != nil {
			return nil, err
		}
		out := make([]any, len(es))
		for i, e := range es {
			out[i] = pair(e)
		}
		return out, nil
	}},
}

// Ops lists the operation names accepted by Registry.Call.
func Ops() []string {
	return []string{
		"put", "get", "peek", "peek_lru", "contains", "pop", "pop_lru",
		"len", "is_empty", "cap", "clear", "keys", "values", "to_list",
	}
}
