// Package style holds the style document model: an ordered JSON value tree,
// typed layer and property views over it, and the canonical formatter.
package style

import (
	"iter"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Value is a node of a parsed JSON tree. Concrete types are Null, Bool,
// Number, String, Array and *Object. Values are treated as immutable once
// parsed.
type Value interface {
	jsonValue()
}

type (
	Null   struct{}
	Bool   bool
	String string
	Array  []Value
)

// Number keeps the literal it was parsed from so reserialization does not
// alter the source text.
type Number struct {
	text string
}

func (Null) jsonValue()    {}
func (Bool) jsonValue()    {}
func (String) jsonValue()  {}
func (Array) jsonValue()   {}
func (Number) jsonValue()  {}
func (*Object) jsonValue() {}

// NumberOf returns a number formatted the way JavaScript prints it: integers
// without exponent or fraction.
func NumberOf(f float64) Number {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return Number{text: strconv.FormatFloat(f, 'f', -1, 64)}
	}
	return Number{text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Float returns numeric value of the literal.
func (n Number) Float() float64 {
	f, _ := strconv.ParseFloat(n.text, 64)
	return f
}

// IsInteger reports whether number has no fractional part.
func (n Number) IsInteger() bool {
	f := n.Float()
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

func (n Number) String() string {
	if n.text == "" {
		return "0"
	}
	return n.text
}

// Member is a single key of an object together with the line it was found on
// (0 for members created programmatically).
type Member struct {
	Key   string
	Value Value
	Line  int
}

// Object is a JSON object which remembers insertion order of its keys.
type Object struct {
	Line    int
	members []Member
	index   map[string]int
	dupes   []Member
}

func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Get returns value stored under the key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// LineOf returns source line of the key or object line when the key is absent.
func (o *Object) LineOf(key string) int {
	if o == nil {
		return 0
	}
	if i, ok := o.index[key]; ok && o.members[i].Line > 0 {
		return o.members[i].Line
	}
	return o.Line
}

// Set stores value under the key. Existing keys keep their position.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.add(key, v, 0)
}

// add appends member found by the parser, remembering repeated keys.
func (o *Object) add(key string, v Value, line int) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.dupes = append(o.dupes, Member{Key: key, Value: v, Line: line})
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v, Line: line})
}

// Members iterates over object members in insertion order.
func (o *Object) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, m := range o.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Keys returns object keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for k := range o.Members() {
		keys = append(keys, k)
	}
	return keys
}

// Duplicates returns repeated occurrences of keys seen while parsing. The
// last occurrence wins, the first one keeps its position.
func (o *Object) Duplicates() []Member {
	if o == nil {
		return nil
	}
	return slices.Clone(o.dupes)
}

// Clone makes a deep copy of the value.
func Clone(v Value) Value {
	switch t := v.(type) {
	case Array:
		if t == nil {
			return Array(nil)
		}
		out := make(Array, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	case *Object:
		return t.Clone()
	default:
		// scalars are values
		return v
	}
}

// Clone makes a deep copy of the object preserving member lines.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := &Object{
		Line:    o.Line,
		members: make([]Member, len(o.members)),
		index:   maps.Clone(o.index),
		dupes:   slices.Clone(o.dupes),
	}
	for i, m := range o.members {
		out.members[i] = Member{Key: m.Key, Value: Clone(m.Value), Line: m.Line}
	}
	return out
}

// Equal reports deep equality. Numbers compare by value, object key order is
// not significant.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x.Float() == y.Float()
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for k, v := range x.Members() {
			w, ok := y.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}

// TypeName returns JSON type name of the value as used in messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case *Object:
		return "object"
	}
	return "undefined"
}

// FromGo converts generic decoded data (as produced by YAML or JSON decoders
// into any) to a Value. Map keys are sorted to keep results deterministic.
func FromGo(v any) (Value, bool) {
	switch t := v.(type) {
	case nil:
		return Null{}, true
	case bool:
		return Bool(t), true
	case string:
		return String(t), true
	case int:
		return NumberOf(float64(t)), true
	case int64:
		return NumberOf(float64(t)), true
	case uint64:
		return NumberOf(float64(t)), true
	case float64:
		return NumberOf(t), true
	case []any:
		out := make(Array, 0, len(t))
		for _, e := range t {
			ev, ok := FromGo(e)
			if !ok {
				return nil, false
			}
			out = append(out, ev)
		}
		return out, true
	case map[string]any:
		obj := NewObject()
		for _, k := range slices.Sorted(maps.Keys(t)) {
			ev, ok := FromGo(t[k])
			if !ok {
				return nil, false
			}
			obj.Set(k, ev)
		}
		return obj, true
	}
	return nil, false
}
