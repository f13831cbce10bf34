package term

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// norm maps a nil interface to Nil so containers built by hand with missing
// elements still compare and hash consistently.
func norm(t Term) Term {
	if t == nil {
		return Nil{}
	}
	return t
}

// floatBits folds -0 into +0 and all NaNs into one value.
func floatBits(f Float) uint64 {
	x := float64(f)
	switch {
	case x == 0:
		return 0
	case math.IsNaN(x):
		return 0x7ff8000000000001
	default:
		return math.Float64bits(x)
	}
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Term) bool {
	a, b = norm(a), norm(b)
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Nil:
		return true
	case Int:
		return x == b.(Int)
	case Uint:
		return x == b.(Uint)
	case Float:
		return floatBits(x) == floatBits(b.(Float))
	case Bool:
		return x == b.(Bool)
	case String:
		return x == b.(String)
	case Atom:
		return x == b.(Atom)
	case Bytes:
		return bytes.Equal(x, b.(Bytes))
	case List:
		return equalAll(x, b.(List))
	case Tuple:
		return equalAll(x, b.(Tuple))
	case Map:
		y := b.(Map)
		if len(x.pairs) != len(y.pairs) {
			return false
		}
		for _, p := range x.pairs {
			v, ok := y.Get(p.Key)
			if !ok || !Equal(p.Value, v) {
				return false
			}
		}
		return true
	}
	return false
}

func equalAll(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash returns a stable 64-bit hash of t, consistent with [Equal].
func Hash(t Term) uint64 {
	d := xxhash.New()
	writeHash(d, t)
	return d.Sum64()
}

func writeHash(d *xxhash.Digest, t Term) {
	t = norm(t)

	var buf [9]byte
	buf[0] = byte(t.Kind())

	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[1:], v)
		_, _ = d.Write(buf[:])
	}

	switch x := t.(type) {
	case Nil:
		_, _ = d.Write(buf[:1])
	case Int:
		putU64(uint64(x))
	case Uint:
		putU64(uint64(x))
	case Float:
		putU64(floatBits(x))
	case Bool:
		var v uint64
		if x {
			v = 1
		}
		putU64(v)
	case String:
		putU64(uint64(len(x)))
		_, _ = d.WriteString(string(x))
	case Atom:
		putU64(uint64(len(x)))
		_, _ = d.WriteString(string(x))
	case Bytes:
		putU64(uint64(len(x)))
		_, _ = d.Write(x)
	case List:
		putU64(uint64(len(x)))
		for _, e := range x {
			writeHash(d, e)
		}
	case Tuple:
		putU64(uint64(len(x)))
		for _, e := range x {
			writeHash(d, e)
		}
	case Map:
		// Pair hashes are summed so that entry order does not matter.
		var sum uint64
		for _, p := range x.pairs {
			pd := xxhash.New()
			writeHash(pd, p.Key)
			writeHash(pd, p.Value)
			sum += pd.Sum64()
		}
		putU64(uint64(len(x.pairs)))
		putU64(sum)
	}
}
