package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// Scope is one frame of the variable-binding chain.
//
// The root frame is global and lives for the whole run. Local frames are
// created by [Scope.Child] for a single user-function call; lookups, updates
// and deletes that miss a frame's own bindings continue in its parent. Every
// frame of a chain shares the same [Extras].
type Scope struct {
	vars   map[string]Value
	parent *Scope
	extras *Extras
}

// NewScope returns an empty global frame with a fresh [Extras].
func NewScope() *Scope {
	return &Scope{
		vars:   make(map[string]Value),
		extras: NewExtras(),
	}
}

// Child returns a local frame over s whose own bindings are exactly
// bindings. The map is owned by the new frame afterward.
func (s *Scope) Child(bindings map[string]Value) *Scope {
	if bindings == nil {
		bindings = make(map[string]Value)
	}

	return &Scope{
		vars:   bindings,
		parent: s,
		extras: s.extras,
	}
}

// Parent returns the enclosing frame, or nil for the global frame.
func (s *Scope) Parent() *Scope { return s.parent }

// IsGlobal reports whether s is the root frame.
func (s *Scope) IsGlobal() bool { return s.parent == nil }

// Depth returns the number of frames between s and the global frame.
func (s *Scope) Depth() int {
	n := 0
	for f := s.parent; f != nil; f = f.parent {
		n++
	}

	return n
}

// Extras returns the store shared by the whole chain.
func (s *Scope) Extras() *Extras { return s.extras }

// owner returns the nearest frame that binds name.
func (s *Scope) owner(name string) *Scope {
	for f := s; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			return f
		}
	}

	return nil
}

// Exists reports whether name is bound anywhere in the chain.
func (s *Scope) Exists(name string) bool { return s.owner(name) != nil }

// Get returns the value of the nearest binding of name.
func (s *Scope) Get(name string) (Value, bool) {
	if f := s.owner(name); f != nil {
		return f.vars[name], true
	}

	return Nil(), false
}

// Insert binds name in this frame only. A binding of the same name in a
// parent frame is shadowed; one in this frame is an error.
func (s *Scope) Insert(name string, v Value) error {
	if _, ok := s.vars[name]; ok {
		return ErrAlreadyDefined.With(slog.String(nameKey, name))
	}

	s.vars[name] = v

	return nil
}

// Update replaces the value of the nearest binding of name and returns the
// previous value.
func (s *Scope) Update(name string, v Value) (Value, error) {
	f := s.owner(name)
	if f == nil {
		return Nil(), ErrUndefinedBinding.With(slog.String(nameKey, name))
	}

	prev := f.vars[name]
	f.vars[name] = v

	return prev, nil
}

// Modify replaces the nearest binding of name with fn applied to its
// current value.
func (s *Scope) Modify(name string, fn func(Value) (Value, error)) error {
	f := s.owner(name)
	if f == nil {
		return ErrUndefinedBinding.With(slog.String(nameKey, name))
	}

	v, err := fn(f.vars[name])
	if err != nil {
		return err
	}

	f.vars[name] = v

	return nil
}

// Delete removes the nearest binding of name and returns its value. When the
// value refers to a function or map, that table entry is removed as well.
func (s *Scope) Delete(name string) (Value, error) {
	f := s.owner(name)
	if f == nil {
		return Nil(), ErrUndefinedBinding.With(slog.String(nameKey, name))
	}

	v := f.vars[name]
	s.extras.release(v)
	delete(f.vars, name)

	return v, nil
}

// Names returns every name visible from s, sorted.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})

	for f := s; f != nil; f = f.parent {
		for name := range f.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Locals returns the names bound in this frame only, sorted.
func (s *Scope) Locals() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// defaultGlobals are bound in the global frame of every interpreter.
func defaultGlobals() map[string]Value {
	return map[string]Value{
		"true":     Boolean(true),
		"false":    Boolean(false),
		"nil":      Nil(),
		"NUMBER":   String(TagNumber),
		"STRING":   String(TagString),
		"NIL":      String(TagNil),
		"BOOLEAN":  String(TagBoolean),
		"FUNCTION": String(TagFunction),
		"OBJECT":   String(TagObject),
	}
}
