// Package lru implements a capacity-bounded least-recently-used map over
// [term.Term] keys and values.
//
// An [Engine] is not safe for concurrent use. Share it through
// [github.com/codewandler/termcache/core/cache.Handle].
package lru

import (
	"container/list"
	"errors"

	"github.com/codewandler/termcache/core/term"
)

var ErrInvalidCapacity = errors.New("capacity must not be negative")

// hashFn buckets keys in the index. Tests swap it to force collisions.
var hashFn = term.Hash

// Entry is a key/value pair as stored in the engine.
type Entry struct {
	Key   term.Term
	Value term.Term
}

// Engine keeps at most Cap() entries ordered by recency, most recently used
// at the front. Keys are owned by the engine once put and must not be
// mutated by the caller afterwards.
type Engine struct {
	capacity int
	ll       *list.List
	index    map[uint64][]*list.Element
}

// New returns an empty engine. A capacity of 0 is accepted: such an engine
// never stores anything and every Put hands the new pair straight back as
// evicted.
func New(capacity int) (*Engine, error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	return &Engine{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[uint64][]*list.Element),
	}, nil
}

func (e *Engine) lookup(k term.Term) (h uint64, ele *list.Element) {
	h = hashFn(k)
	for _, el := range e.index[h] {
		if term.Equal(el.Value.(*Entry).Key, k) {
			return h, el
		}
	}
	return h, nil
}

func (e *Engine) unlink(h uint64, ele *list.Element) *Entry {
	bucket := e.index[h]
	for i, el := range bucket {
		if el == ele {
			bucket[i] = bucket[len(bucket)-1]
			bucket[len(bucket)-1] = nil
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(e.index, h)
	} else {
		e.index[h] = bucket
	}
	return e.ll.Remove(ele).(*Entry)
}

// Put stores v under k and marks k most recently used. If k was absent and
// the engine was full, the least recently used pair is removed and returned
// with ok set.
func (e *Engine) Put(k, v term.Term) (evicted Entry, ok bool) {
	h, ele := e.lookup(k)
	if ele != nil {
		ele.Value.(*Entry).Value = v
		e.ll.MoveToFront(ele)
		return Entry{}, false
	}

	if e.capacity == 0 {
		return Entry{Key: k, Value: v}, true
	}

	if e.ll.Len() >= e.capacity {
		evicted, ok = e.PopLRU()
	}

	e.index[h] = append(e.index[h], e.ll.PushFront(&Entry{Key: k, Value: v}))
	return evicted, ok
}

// Get returns the value for k and marks k most recently used.
func (e *Engine) Get(k term.Term) (term.Term, bool) {
	_, ele := e.lookup(k)
	if ele == nil {
		return nil, false
	}
	e.ll.MoveToFront(ele)
	return ele.Value.(*Entry).Value, true
}

// Peek returns the value for k without touching recency.
func (e *Engine) Peek(k term.Term) (term.Term, bool) {
	_, ele := e.lookup(k)
	if ele == nil {
		return nil, false
	}
	return ele.Value.(*Entry).Value, true
}

// PeekLRU returns the least recently used pair without touching recency.
func (e *Engine) PeekLRU() (Entry, bool) {
	back := e.ll.Back()
	if back == nil {
		return Entry{}, false
	}
	return *back.Value.(*Entry), true
}

func (e *Engine) Contains(k term.Term) bool {
	_, ele := e.lookup(k)
	return ele != nil
}

// Pop removes k wherever it sits in the recency order.
func (e *Engine) Pop(k term.Term) (term.Term, bool) {
	h, ele := e.lookup(k)
	if ele == nil {
		return nil, false
	}
	return e.unlink(h, ele).Value, true
}

// PopLRU removes and returns the least recently used pair.
func (e *Engine) PopLRU() (Entry, bool) {
	back := e.ll.Back()
	if back == nil {
		return Entry{}, false
	}
	ent := back.Value.(*Entry)
	return *e.unlink(hashFn(ent.Key), back), true
}

func (e *Engine) Len() int      { return e.ll.Len() }
func (e *Engine) IsEmpty() bool { return e.ll.Len() == 0 }
func (e *Engine) Cap() int      { return e.capacity }

// Clear removes every entry. Capacity is unchanged.
func (e *Engine) Clear() {
	e.ll.Init()
	clear(e.index)
}

// Range calls fn for each entry from most to least recently used until fn
// returns false. Recency is not touched and fn must not modify the engine.
func (e *Engine) Range(fn func(Entry) bool) {
	for ele := e.ll.Front(); ele != nil; ele = ele.Next() {
		if !fn(*ele.Value.(*Entry)) {
			return
		}
	}
}

// Keys returns all keys, most recently used first.
func (e *Engine) Keys() []term.Term {
	out := make([]term.Term, 0, e.ll.Len())
	e.Range(func(ent Entry) bool {
		out = append(out, ent.Key)
		return true
	})
	return out
}

// Values returns all values in the same order as Keys.
func (e *Engine) Values() []term.Term {
	out := make([]term.Term, 0, e.ll.Len())
	e.Range(func(ent Entry) bool {
		out = append(out, ent.Value)
		return true
	})
	return out
}

// ToList returns all pairs in the same order as Keys.
func (e *Engine) ToList() []Entry {
	out := make([]Entry, 0, e.ll.Len())
	e.Range(func(ent Entry) bool {
		out = append(out, ent)
		return true
	})
	return out
}
