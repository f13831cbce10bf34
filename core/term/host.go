package term

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrUnsupportedType = errors.New("unsupported type")

// FromHost converts a plain Go value into a Term.
func FromHost(v any) (Term, error) {
	switch x := v.(type) {
	case nil:
		return Nil{}, nil
	case Term:
		return Clone(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return Uint(x), nil
	case uint8:
		return Uint(x), nil
	case uint16:
		return Uint(x), nil
	case uint32:
		return Uint(x), nil
	case uint64:
		return Uint(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Clone(Bytes(x)), nil
	case json.Number:
		return fromNumber(x)
	case []any:
		return fromSlice(x)
	case []string:
		out := make(List, len(x))
		for i, s := range x {
			out[i] = String(s)
		}
		return out, nil
	case []int:
		out := make(List, len(x))
		for i, n := range x {
			out[i] = Int(n)
		}
		return out, nil
	case []int64:
		out := make(List, len(x))
		for i, n := range x {
			out[i] = Int(n)
		}
		return out, nil
	case []float64:
		out := make(List, len(x))
		for i, f := range x {
			out[i] = Float(f)
		}
		return out, nil
	case map[string]any:
		m := Map{pairs: make([]Pair, 0, len(x)), index: make(map[uint64][]int, len(x))}
		for k, e := range x {
			t, err := FromHost(e)
			if err != nil {
				return nil, fmt.Errorf("map value %q: %w", k, err)
			}
			m.set(String(k), t)
		}
		return m, nil
	case map[any]any:
		m := Map{pairs: make([]Pair, 0, len(x)), index: make(map[uint64][]int, len(x))}
		for k, e := range x {
			kt, err := FromHost(k)
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			vt, err := FromHost(e)
			if err != nil {
				return nil, fmt.Errorf("map value: %w", err)
			}
			// distinct Go keys such as int(1) and int64(1) can map to one term;
			// which one wins would depend on map iteration order
			if m.set(kt, vt) {
				return nil, fmt.Errorf("%w: ambiguous map key %s", ErrUnsupportedType, kt)
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func fromSlice(xs []any) (Term, error) {
	out := make(List, len(xs))
	for i, e := range xs {
		t, err := FromHost(e)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

func fromNumber(n json.Number) (Term, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return Uint(u), nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed number %q", ErrUnsupportedType, string(n))
	}
	return Float(f), nil
}

// ToHost converts t into a plain Go value. Tuples come back as []any, so the
// tuple/list distinction is lost. Maps become map[any]any when every key is a
// scalar, otherwise a []any of two-element []any pairs.
func ToHost(t Term) any {
	switch x := norm(t).(type) {
	case Nil:
		return nil
	case Int:
		return int64(x)
	case Uint:
		return uint64(x)
	case Float:
		return float64(x)
	case Bool:
		return bool(x)
	case String:
		return string(x)
	case Atom:
		return x
	case Bytes:
		out := make([]byte, len(x))
		copy(out, x)
		return out
	case List:
		return toHostAll(x)
	case Tuple:
		return toHostAll(x)
	case Map:
		if scalarKeys(x) {
			out := make(map[any]any, len(x.pairs))
			for _, p := range x.pairs {
				out[ToHost(p.Key)] = ToHost(p.Value)
			}
			return out
		}
		out := make([]any, len(x.pairs))
		for i, p := range x.pairs {
			out[i] = []any{ToHost(p.Key), ToHost(p.Value)}
		}
		return out
	}
	return nil
}

func toHostAll(ts []Term) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = ToHost(t)
	}
	return out
}

// scalarKeys reports whether every key converts to a comparable Go value that
// stays unique as a Go map key.
func scalarKeys(m Map) bool {
	for _, p := range m.pairs {
		switch k := norm(p.Key).(type) {
		case Int, Uint, Bool, String, Atom, Nil:
		case Float:
			// NaN keys never match in a Go map
			if math.IsNaN(float64(k)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
