package term

import (
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindNil Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindString
	KindAtom
	KindBytes
	KindList
	KindTuple
	KindMap
)

var kindNames = [...]string{
	KindNil:    "nil",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindBool:   "bool",
	KindString: "string",
	KindAtom:   "atom",
	KindBytes:  "bytes",
	KindList:   "list",
	KindTuple:  "tuple",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Term is a value storable in the cache.
type Term interface {
	Kind() Kind
	String() string
	sealed()
}

type (
	Nil    struct{}
	Int    int64
	Uint   uint64
	Float  float64
	Bool   bool
	String string
	Atom   string
	Bytes  []byte
	List   []Term
	Tuple  []Term
)

// Pair is a single key/value association inside a [Map].
type Pair struct {
	Key   Term
	Value Term
}

// Map associates unique keys with values. Iteration order carries no meaning
// and does not take part in equality.
type Map struct {
	pairs []Pair
	index map[uint64][]int // key hash -> positions in pairs
}

// NewMap builds a Map from pairs. When a key repeats, the last value wins.
func NewMap(pairs ...Pair) Map {
	m := Map{
		pairs: make([]Pair, 0, len(pairs)),
		index: make(map[uint64][]int, len(pairs)),
	}
	for _, p := range pairs {
		m.set(p.Key, p.Value)
	}
	return m
}

// set stores v under k and reports whether k was already present.
func (m *Map) set(k, v Term) (replaced bool) {
	if m.index == nil {
		m.index = make(map[uint64][]int)
	}
	h := Hash(k)
	for _, i := range m.index[h] {
		if Equal(m.pairs[i].Key, k) {
			m.pairs[i].Value = v
			return true
		}
	}
	m.index[h] = append(m.index[h], len(m.pairs))
	m.pairs = append(m.pairs, Pair{Key: k, Value: v})
	return false
}

func (m Map) Len() int { return len(m.pairs) }

// Get returns the value stored under k.
func (m Map) Get(k Term) (Term, bool) {
	for _, i := range m.index[Hash(k)] {
		if Equal(m.pairs[i].Key, k) {
			return m.pairs[i].Value, true
		}
	}
	return nil, false
}

// Pairs returns a copy of the entries. Order is unspecified.
func (m Map) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

func (Nil) Kind() Kind    { return KindNil }
func (Int) Kind() Kind    { return KindInt }
func (Uint) Kind() Kind   { return KindUint }
func (Float) Kind() Kind  { return KindFloat }
func (Bool) Kind() Kind   { return KindBool }
func (String) Kind() Kind { return KindString }
func (Atom) Kind() Kind   { return KindAtom }
func (Bytes) Kind() Kind  { return KindBytes }
func (List) Kind() Kind   { return KindList }
func (Tuple) Kind() Kind  { return KindTuple }
func (Map) Kind() Kind    { return KindMap }

func (Nil) sealed()    {}
func (Int) sealed()    {}
func (Uint) sealed()   {}
func (Float) sealed()  {}
func (Bool) sealed()   {}
func (String) sealed() {}
func (Atom) sealed()   {}
func (Bytes) sealed()  {}
func (List) sealed()   {}
func (Tuple) sealed()  {}
func (Map) sealed()    {}

func (Nil) String() string      { return "nil" }
func (i Int) String() string    { return strconv.FormatInt(int64(i), 10) }
func (u Uint) String() string   { return strconv.FormatUint(uint64(u), 10) + "u" }
func (f Float) String() string  { return strconv.FormatFloat(float64(f), 'g', -1, 64) + "f" }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }
func (s String) String() string { return strconv.Quote(string(s)) }
func (a Atom) String() string   { return ":" + string(a) }
func (b Bytes) String() string  { return "<<" + hex.EncodeToString(b) + ">>" }
func (l List) String() string   { return "[" + join([]Term(l)) + "]" }
func (t Tuple) String() string  { return "{" + join([]Term(t)) + "}" }

func (m Map) String() string {
	var sb strings.Builder
	sb.WriteString("%{")
	for i, p := range m.pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s => %s", norm(p.Key), norm(p.Value))
	}
	sb.WriteString("}")
	return sb.String()
}

func join(ts []Term) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = norm(t).String()
	}
	return strings.Join(parts, ", ")
}

// Clone returns a deep copy of t. Scalars are returned as is.
func Clone(t Term) Term {
	switch v := t.(type) {
	case Bytes:
		if v == nil {
			return v
		}
		out := make(Bytes, len(v))
		copy(out, v)
		return out
	case List:
		return List(cloneAll(v))
	case Tuple:
		return Tuple(cloneAll(v))
	case Map:
		out := Map{
			pairs: make([]Pair, len(v.pairs)),
			index: make(map[uint64][]int, len(v.index)),
		}
		for i, p := range v.pairs {
			out.pairs[i] = Pair{Key: Clone(p.Key), Value: Clone(p.Value)}
		}
		for h, pos := range v.index {
			out.index[h] = slices.Clone(pos)
		}
		return out
	default:
		return t
	}
}

func cloneAll(ts []Term) []Term {
	if ts == nil {
		return nil
	}
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = Clone(t)
	}
	return out
}
