package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRef(t *testing.T, reg *Registry, capacity any) string {
	t.Helper()
	res := reg.New(capacity)
	require.True(t, res.OK(), "new: %+v", res)
	ref, isStr := res.Value.(string)
	require.True(t, isStr)
	require.NotEmpty(t, ref)
	return ref
}

func TestRegistry_New(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()

	for _, c := range []any{0, 3, uint8(4), int64(5)} {
		newRef(t, reg, c)
	}

	for _, c := range []any{-1, "10", 1.5, nil, func() {}} {
		res := reg.New(c)
		assert.False(t, res.OK(), "%#v", c)
		assert.Equal(t, ReasonInvalidCapacity, res.Reason, "%#v", c)
	}
}

func TestRegistry_PutGet(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 2)

	res := reg.Call(ref, "put", "a", 1)
	require.True(t, res.OK())
	require.Nil(t, res.Value)

	reg.Call(ref, "put", "b", []any{"x", true})

	res = reg.Call(ref, "get", "a")
	require.True(t, res.OK())
	require.Equal(t, int64(1), res.Value)

	res = reg.Call(ref, "put", "c", 3)
	require.True(t, res.OK())
	require.Equal(t, []any{"b", []any{"x", true}}, res.Value)

	res = reg.Call(ref, "keys")
	require.Equal(t, []any{"c", "a"}, res.Value)
	res = reg.Call(ref, "values")
	require.Equal(t, []any{int64(3), int64(1)}, res.Value)
	res = reg.Call(ref, "to_list")
	require.Equal(t, []any{[]any{"c", int64(3)}, []any{"a", int64(1)}}, res.Value)
}

func TestRegistry_Introspection(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 4)

	assert.Equal(t, true, reg.Call(ref, "is_empty").Value)
	assert.Equal(t, 4, reg.Call(ref, "cap").Value)

	reg.Call(ref, "put", 1, "one")
	reg.Call(ref, "put", 2, "two")

	assert.Equal(t, 2, reg.Call(ref, "len").Value)
	assert.Equal(t, true, reg.Call(ref, "contains", 1).Value)
	assert.Equal(t, false, reg.Call(ref, "contains", 3).Value)
	assert.Equal(t, []any{int64(1), "one"}, reg.Call(ref, "peek_lru").Value)
	assert.Equal(t, "one", reg.Call(ref, "peek", 1).Value)

	assert.Equal(t, []any{int64(1), "one"}, reg.Call(ref, "pop_lru").Value)
	assert.Equal(t, "two", reg.Call(ref, "pop", 2).Value)

	require.True(t, reg.Call(ref, "put", 5, "five").OK())
	require.True(t, reg.Call(ref, "clear").OK())
	assert.Equal(t, 0, reg.Call(ref, "len").Value)
}

func TestRegistry_FailureReasons(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 2)

	for _, op := range []string{"get", "peek", "pop"} {
		assert.Equal(t, ReasonNotFound, reg.Call(ref, op, "missing").Reason, op)
	}
	assert.Equal(t, ReasonNotFound, reg.Call(ref, "peek_lru").Reason)
	assert.Equal(t, ReasonNotFound, reg.Call(ref, "pop_lru").Reason)

	assert.Equal(t, ReasonUnsupportedType, reg.Call(ref, "put", func() {}, 1).Reason)
	assert.Equal(t, ReasonUnsupportedType, reg.Call(ref, "put", 1, make(chan int)).Reason)
	assert.Equal(t, ReasonUnsupportedType, reg.Call(ref, "get", struct{}{}).Reason)
	assert.Equal(t, 0, reg.Call(ref, "len").Value)

	assert.Equal(t, ReasonBadReference, reg.Call("nope", "len").Reason)
	assert.Equal(t, ReasonUnknownOp, reg.Call(ref, "resize", 3).Reason)
	assert.Equal(t, ReasonBadArity, reg.Call(ref, "get").Reason)
}

func TestRegistry_LockFail(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 2)
	reg.Call(ref, "put", "a", 1)

	h, found := reg.Handle(ref)
	require.True(t, found)
	defer h.Release()

	g, err := h.Acquire()
	require.NoError(t, err)

	for _, op := range Ops() {
		var args []any
		switch operations[op].arity {
		case 1:
			args = []any{"a"}
		case 2:
			args = []any{"b", 2}
		}
		assert.Equal(t, ReasonLockFail, reg.Call(ref, op, args...).Reason, op)
	}

	// conversion failures are reported before the lock is tried
	assert.Equal(t, ReasonUnsupportedType, reg.Call(ref, "get", func() {}).Reason)

	g.Release()
	assert.Equal(t, []any{"a"}, reg.Call(ref, "keys").Value)
}

func TestRegistry_CallJSON(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 2)

	res := reg.CallJSON(ref, "put", []byte(`[["user", 1], {"name": "ada", "age": 36}]`))
	require.True(t, res.OK(), "%+v", res)

	res = reg.CallJSON(ref, "get", []byte(`[["user", 1]]`))
	require.True(t, res.OK(), "%+v", res)
	require.Equal(t, map[any]any{"name": "ada", "age": int64(36)}, res.Value)

	// key is an integer list, so a float key must miss
	res = reg.CallJSON(ref, "get", []byte(`[["user", 1.5]]`))
	require.Equal(t, ReasonNotFound, res.Reason)

	res = reg.CallJSON(ref, "len", nil)
	require.Equal(t, 1, res.Value)

	res = reg.CallJSON(ref, "get", []byte(`[`))
	require.Equal(t, ReasonUnsupportedType, res.Reason)
}

func TestRegistry_CallJSON_TrailingData(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 2)

	res := reg.CallJSON(ref, "put", []byte(`["a", 1] ["garbage"`))
	require.Equal(t, ReasonUnsupportedType, res.Reason)

	res = reg.CallJSON(ref, "get", []byte(`["a"]`))
	require.Equal(t, ReasonNotFound, res.Reason)
	require.Equal(t, 0, reg.CallJSON(ref, "len", nil).Value)
}

func TestRegistry_Drop(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()
	ref := newRef(t, reg, 2)
	reg.Call(ref, "put", "a", 1)

	h, found := reg.Handle(ref)
	require.True(t, found)

	require.True(t, reg.Drop(ref).OK())
	assert.Equal(t, ReasonBadReference, reg.Drop(ref).Reason)
	assert.Equal(t, ReasonBadReference, reg.Call(ref, "len").Reason)

	// an outstanding handle keeps the cache alive
	n, err := h.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	h.Release()

	_, found = reg.Handle(ref)
	assert.False(t, found)
}
