package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

func conversionOperators() []*Operator {
	return []*Operator{
		{
			Name:   "str",
			Doc:    "Render any value as a String.",
			Params: []string{"expr"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				v, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				return String(v.String()), nil
			},
		},
		{
			Name:   "num",
			Doc:    "Convert a String, Number or Boolean to a Number.",
			Params: []string{"expr"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				v, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				return toNumber(in, v)
			},
		},
		{
			Name:   "calc",
			Doc:    "Evaluate an infix expression string over the visible primitive bindings.",
			Params: []string{"source"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				src, err := in.Text(0)
				if err != nil {
					return Nil(), err
				}

				out, err := expr.Eval(src, calcEnv(in.Scope()))
				if err != nil {
					return Nil(), ErrConversion.Wrap(err).
						With(slog.String("source", src), positionAttr(in.at))
				}

				return fromAny(in, out)
			},
		},
	}
}

func toNumber(in *Invocation, v Value) (Value, error) {
	switch v.Kind() {
	case KindNumber:
		return v, nil

	case KindBoolean:
		if b, _ := v.Bool(); b {
			return Number(1), nil
		}

		return Number(0), nil

	case KindString:
		s, _ := v.Text()

		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Nil(), ErrConversion.Wrap(err).
				With(slog.String("text", s), positionAttr(in.at))
		}

		return Number(n), nil

	default:
		return Nil(), ErrConversion.
			With(slog.Any("value", v), positionAttr(in.at)).
			Detail("cannot convert " + v.Kind().String() + " to Number")
	}
}

// calcEnv exposes every primitive binding visible from s as a variable.
func calcEnv(s *Scope) map[string]any {
	env := make(map[string]any)

	for _, name := range s.Names() {
		v, _ := s.Get(name)
		if v.IsPrimitive() {
			env[name] = v.Any()
		}
	}

	return env
}

func fromAny(in *Invocation, out any) (Value, error) {
	switch x := out.(type) {
	case nil:
		return Nil(), nil
	case bool:
		return Boolean(x), nil
	case string:
		return String(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	default:
		return Nil(), ErrConversion.
			With(slog.Any("result", out), positionAttr(in.at)).
			Detail("calc produced an unsupported result")
	}
}
