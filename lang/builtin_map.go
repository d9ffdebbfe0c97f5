package lang

import (
	"fmt"
	"io"
)

func mapOperators() []*Operator {
	return []*Operator{
		{
			Name:   "new_map",
			Doc:    "Create an empty map, optionally addressable by a String tag.",
			Params: []string{"tag"},
			Min:    0, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				var tag string

				if in.Len() > 0 {
					s, err := in.Text(0)
					if err != nil {
						return Nil(), err
					}

					tag = s
				}

				v, err := in.Scope().Extras().NewMap(tag)
				if err != nil {
					return Nil(), WrapError(err).With(positionAttr(in.at))
				}

				return v, nil
			},
		},
		{
			Name:   "exists_map",
			Doc:    "Report whether tag refers to a live map.",
			Params: []string{"tag"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				ref, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				return Boolean(in.Scope().Extras().HasMap(ref)), nil
			},
		},
		{
			Name:   "delete_map",
			Doc:    "Remove a map.",
			Params: []string{"tag"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				ref, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				if err := in.Scope().Extras().DeleteMap(ref); err != nil {
					return Nil(), WrapError(err).With(positionAttr(in.at))
				}

				return Nil(), nil
			},
		},
		{
			Name:   "map_insert",
			Doc:    "Set key to value and return the previous value, or Nil.",
			Params: []string{"tag", "key", "value"},
			Min:    3, Max: 3,
			Eval: func(in *Invocation) (Value, error) {
				m, err := in.mapArg(0)
				if err != nil {
					return Nil(), err
				}

				kv, err := in.EvalFrom(1)
				if err != nil {
					return Nil(), err
				}

				prev, err := m.Insert(kv[0], kv[1])
				if err != nil {
					return Nil(), WrapError(err).With(positionAttr(in.at))
				}

				return prev, nil
			},
		},
		withKey("map_get", "Return the value at key, or Nil.",
			func(m *Map, key Value) Value {
				v, _ := m.Get(key)

				return v
			}),
		withKey("map_has", "Report whether key is present.",
			func(m *Map, key Value) Value {
				_, ok := m.Get(key)

				return Boolean(ok)
			}),
		withKey("map_remove", "Remove key and return its value, or Nil.",
			func(m *Map, key Value) Value {
				v, _ := m.Remove(key)

				return v
			}),
		withMap("map_size", "Return the number of entries.",
			func(_ *Invocation, m *Map) (Value, error) {
				return Number(float64(m.Len())), nil
			}),
		withMap("map_clear", "Remove every entry.",
			func(_ *Invocation, m *Map) (Value, error) {
				m.Clear()

				return Nil(), nil
			}),
		withMap("print_map", "Write the map's entries in key order.",
			func(in *Invocation, m *Map) (Value, error) {
				if _, err := fmt.Fprintln(in.console(), m.String()); err != nil {
					return Nil(), in.Complain(err.Error())
				}

				return Nil(), nil
			}),
	}
}

func withMap(name, doc string, fn func(*Invocation, *Map) (Value, error)) *Operator {
	return &Operator{
		Name:   name,
		Doc:    doc,
		Params: []string{"tag"},
		Min:    1,
		Max:    1,
		Eval: func(in *Invocation) (Value, error) {
			m, err := in.mapArg(0)
			if err != nil {
				return Nil(), err
			}

			return fn(in, m)
		},
	}
}

func withKey(name, doc string, fn func(*Map, Value) Value) *Operator {
	return &Operator{
		Name:   name,
		Doc:    doc,
		Params: []string{"tag", "key"},
		Min:    2,
		Max:    2,
		Eval: func(in *Invocation) (Value, error) {
			m, err := in.mapArg(0)
			if err != nil {
				return Nil(), err
			}

			key, err := in.Eval(1)
			if err != nil {
				return Nil(), err
			}

			if err := checkKey(key); err != nil {
				return Nil(), WrapError(err).With(positionAttr(in.at))
			}

			return fn(m, key), nil
		},
	}
}

// mapArg evaluates argument i and resolves it to a live map.
func (in *Invocation) mapArg(i int) (*Map, error) {
	ref, err := in.Eval(i)
	if err != nil {
		return nil, err
	}

	m, err := in.Scope().Extras().Map(ref)
	if err != nil {
		return nil, WrapError(err).With(positionAttr(in.at))
	}

	return m, nil
}

// EvalFrom evaluates the arguments from index i onward.
func (in *Invocation) EvalFrom(i int) ([]Value, error) {
	vals := make([]Value, 0, len(in.args)-i)

	for ; i < len(in.args); i++ {
		v, err := in.Eval(i)
		if err != nil {
			return nil, err
		}

		vals = append(vals, v)
	}

	return vals, nil
}

func (in *Invocation) console() io.Writer {
	if c := in.interp.Console(); c != nil {
		return c
	}

	return io.Discard
}
