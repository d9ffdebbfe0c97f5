package lang

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// FunctionDef is a user-defined function registered by fn.
type FunctionDef struct {
	Body   Expr
	Params []string
}

// Signature renders the definition as "Function (a, b)".
func (f *FunctionDef) Signature() string {
	return "Function (" + strings.Join(f.Params, ", ") + ")"
}

// Extras is the single store of function definitions and maps shared by
// every frame of one interpreter.
//
// Functions and maps draw indices from one counter that only grows, so an
// index removed from either table is never handed out again.
type Extras struct {
	functions map[uint64]*FunctionDef
	maps      map[uint64]*Map
	tags      map[string]uint64
	next      uint64
}

// NewExtras returns an empty store.
func NewExtras() *Extras {
	return &Extras{
		functions: make(map[uint64]*FunctionDef),
		maps:      make(map[uint64]*Map),
		tags:      make(map[string]uint64),
	}
}

func (x *Extras) alloc() uint64 {
	i := x.next
	x.next++

	return i
}

// DefineFunction registers def and returns a reference to it.
func (x *Extras) DefineFunction(def *FunctionDef) Value {
	i := x.alloc()
	x.functions[i] = def

	return Function(i)
}

// Function returns the definition referenced by v.
func (x *Extras) Function(v Value) (*FunctionDef, bool) {
	if v.Kind() != KindFunction {
		return nil, false
	}

	def, ok := x.functions[v.idx]

	return def, ok
}

// NewMap allocates an empty map and returns a reference to it. A non-empty
// tag also makes the map addressable by that string; a tag that already
// names a live map is rejected.
func (x *Extras) NewMap(tag string) (Value, error) {
	if tag != "" {
		if _, ok := x.tags[tag]; ok {
			return Nil(), ErrInvalidObjectReference.
				With(slog.String("tag", tag)).
				Detail("map already exists")
		}
	}

	i := x.alloc()
	x.maps[i] = newMap()

	if tag != "" {
		x.tags[tag] = i
	}

	return Object(i), nil
}

// Map resolves a map reference: an Object value or a String tag.
func (x *Extras) Map(ref Value) (*Map, error) {
	i, err := x.mapIndex(ref)
	if err != nil {
		return nil, err
	}

	return x.maps[i], nil
}

// HasMap reports whether ref resolves to a live map.
func (x *Extras) HasMap(ref Value) bool {
	_, err := x.mapIndex(ref)

	return err == nil
}

// DeleteMap removes the map ref resolves to, along with any tag naming it.
func (x *Extras) DeleteMap(ref Value) error {
	i, err := x.mapIndex(ref)
	if err != nil {
		return err
	}

	x.dropMap(i)

	return nil
}

func (x *Extras) mapIndex(ref Value) (uint64, error) {
	var (
		i  uint64
		ok bool
	)

	switch ref.Kind() {
	case KindObject:
		i = ref.idx
		_, ok = x.maps[i]

	case KindString:
		i, ok = x.tags[ref.str]

	default:
		return 0, ErrInvalidObjectReference.
			With(slog.Any("reference", ref)).
			Detail("expected an object or a map tag")
	}

	if !ok {
		return 0, ErrInvalidObjectReference.
			With(slog.Any("reference", ref)).
			Detail("no such map")
	}

	return i, nil
}

func (x *Extras) dropMap(i uint64) {
	delete(x.maps, i)

	for tag, j := range x.tags {
		if j == i {
			delete(x.tags, tag)
		}
	}
}

// release removes the table entry v refers to, if any. It is called when the
// last binding holding v is deleted.
func (x *Extras) release(v Value) {
	switch v.Kind() {
	case KindFunction:
		delete(x.functions, v.idx)
	case KindObject:
		x.dropMap(v.idx)
	}
}

// Len returns the number of live functions and maps.
func (x *Extras) Len() (functions, maps int) {
	return len(x.functions), len(x.maps)
}

// Render formats v for display. A live function renders as its signature and
// a live map as its contents; anything else uses [Value.String].
func (x *Extras) Render(v Value) string {
	switch v.Kind() {
	case KindFunction:
		if def, ok := x.Function(v); ok {
			return def.Signature()
		}

	case KindObject:
		if m, err := x.Map(v); err == nil {
			return m.String()
		}
	}

	return v.String()
}

// Map is an ordered mapping of primitive keys to values. Iteration follows
// the total order of [Value.Compare].
type Map struct {
	tree *treemap.Map
}

func newMap() *Map {
	return &Map{tree: treemap.NewWith(compareValues)}
}

func compareValues(a, b any) int {
	return a.(Value).Compare(b.(Value))
}

func checkKey(key Value) error {
	if !key.IsPrimitive() {
		return ErrInvalidObjectKey.With(slog.Any("key", key))
	}

	return nil
}

// Insert sets key to value and returns the previous value (Nil if absent).
func (m *Map) Insert(key, value Value) (Value, error) {
	if err := checkKey(key); err != nil {
		return Nil(), err
	}

	prev, _ := m.Get(key)
	m.tree.Put(key, value)

	return prev, nil
}

// Get returns the value at key and whether it was present.
func (m *Map) Get(key Value) (Value, bool) {
	v, ok := m.tree.Get(key)
	if !ok {
		return Nil(), false
	}

	return v.(Value), true
}

// Remove deletes key and returns the removed value (Nil if absent).
func (m *Map) Remove(key Value) (Value, bool) {
	v, ok := m.Get(key)
	if ok {
		m.tree.Remove(key)
	}

	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return m.tree.Size() }

// Clear removes every entry.
func (m *Map) Clear() { m.tree.Clear() }

// All iterates over entries in key order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		it := m.tree.Iterator()
		for it.Next() {
			if !yield(it.Key().(Value), it.Value().(Value)) {
				return
			}
		}
	}
}

// String renders the map as {key: value, ...} in key order.
func (m *Map) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	first := true

	for k, v := range m.All() {
		if !first {
			sb.WriteString(", ")
		}

		first = false

		sb.WriteString(k.GoString())
		sb.WriteString(": ")
		sb.WriteString(v.GoString())
	}

	sb.WriteByte('}')

	return sb.String()
}
