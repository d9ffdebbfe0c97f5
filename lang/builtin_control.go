package lang

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

func controlOperators() []*Operator {
	return []*Operator{
		{
			Name:   "do",
			Doc:    "Evaluate each expression in order and return the last value.",
			Params: []string{"...exprs"},
			Min:    0, Max: unbounded,
			Eval: func(in *Invocation) (Value, error) {
				last := Nil()

				for i := range in.Len() {
					v, err := in.Eval(i)
					if err != nil {
						return Nil(), err
					}

					last = v
				}

				return last, nil
			},
		},
		{
			Name:   "if",
			Doc:    "Evaluate then when cond is truthy, else otherwise.",
			Params: []string{"cond", "then", "else"},
			Min:    2, Max: 3,
			Eval: func(in *Invocation) (Value, error) {
				ok, err := in.Truthy(0)
				if err != nil {
					return Nil(), err
				}

				switch {
				case ok:
					return in.Eval(1)
				case in.Len() > 2:
					return in.Eval(2)
				default:
					return Nil(), nil
				}
			},
		},
		{
			Name:   "while",
			Doc:    "Evaluate body while cond is truthy and return the last body value.",
			Params: []string{"cond", "body"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				last := Nil()

				for n := 0; ; n++ {
					ok, err := in.Truthy(0)
					if err != nil {
						return Nil(), err
					}

					if !ok {
						return last, nil
					}

					if err := in.checkIteration(n); err != nil {
						return Nil(), err
					}

					if last, err = in.Eval(1); err != nil {
						return Nil(), err
					}
				}
			},
		},
		{
			Name:   "repeat",
			Doc:    "Evaluate body count times and return the last body value.",
			Params: []string{"count", "body"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				count, err := in.Number(0)
				if err != nil {
					return Nil(), err
				}

				last := Nil()

				for n := 0; float64(n) < count; n++ {
					if err := in.checkIteration(n); err != nil {
						return Nil(), err
					}

					if last, err = in.Eval(1); err != nil {
						return Nil(), err
					}
				}

				return last, nil
			},
		},
		{
			Name:   "panic",
			Doc:    "Abort the run with the rendered value as message.",
			Params: []string{"expr"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				v, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				return Nil(), ErrPanic.
					With(slog.Any("value", v), positionAttr(in.at)).
					Detail(in.render(v))
			},
		},
		{
			Name:   "assert",
			Doc:    "Fail with msg when cond is not truthy. msg is evaluated only on failure.",
			Params: []string{"cond", "msg"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				ok, err := in.Truthy(0)
				if err != nil {
					return Nil(), err
				}

				if ok {
					return Nil(), nil
				}

				msg, err := in.Eval(1)
				if err != nil {
					return Nil(), err
				}

				return Nil(), ErrAssertionFailed.
					With(slog.Any("value", msg), positionAttr(in.at)).
					Detail(in.render(msg))
			},
		},
		{
			Name:   "sleep",
			Doc:    "Block for ms milliseconds and return ms.",
			Params: []string{"ms"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				ms, err := in.Number(0)
				if err != nil {
					return Nil(), err
				}

				if ms < 0 {
					return Nil(), in.Complain("expects a non-negative duration")
				}

				if err := sleep(in.Context(), time.Duration(ms*float64(time.Millisecond))); err != nil {
					return Nil(), err
				}

				return Number(ms), nil
			},
		},
	}
}

// checkIteration fails when iteration n of a loop would exceed the ceiling,
// or when the run was canceled.
func (in *Invocation) checkIteration(n int) error {
	if err := context.Cause(in.ctx); err != nil {
		return err
	}

	if limit := in.interp.MaxIterations(); n >= limit {
		return ErrIterationLimit.
			Wrap(ErrOperatorComplaint.Detail(in.op.Name+" exceeded "+strconv.Itoa(limit)+" iterations")).
			With(slog.String("operator", in.op.Name), positionAttr(in.at))
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
