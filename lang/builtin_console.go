package lang

import (
	"errors"
	"io"
	"strings"
)

func consoleOperators() []*Operator {
	return []*Operator{
		{
			Name:   "print",
			Doc:    "Write the values separated by spaces.",
			Params: []string{"...values"},
			Min:    0, Max: unbounded,
			Eval: func(in *Invocation) (Value, error) {
				return Nil(), in.print("")
			},
		},
		{
			Name:    "println",
			Aliases: []string{"print_line"},
			Doc:     "Write the values separated by spaces, then a newline.",
			Params:  []string{"...values"},
			Min:     0, Max: unbounded,
			Eval: func(in *Invocation) (Value, error) {
				return Nil(), in.print("\n")
			},
		},
		{
			Name:   "readline",
			Doc:    "Read one line of input; Nil at end of input.",
			Params: []string{"prompt"},
			Min:    0, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				var prompt string

				if in.Len() > 0 {
					v, err := in.Eval(0)
					if err != nil {
						return Nil(), err
					}

					prompt = in.render(v)
				}

				c := in.interp.Console()
				if c == nil {
					return Nil(), nil
				}

				line, err := c.ReadLine(prompt)
				if err != nil {
					if errors.Is(err, io.EOF) {
						return Nil(), nil
					}

					return Nil(), ErrReadInput.Wrap(err).With(positionAttr(in.at))
				}

				return String(line), nil
			},
		},
	}
}

func (in *Invocation) print(suffix string) error {
	vals, err := in.EvalAll()
	if err != nil {
		return err
	}

	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = in.render(v)
	}

	if _, err := io.WriteString(in.console(), strings.Join(parts, " ")+suffix); err != nil {
		return in.Complain(err.Error())
	}

	return nil
}

func (in *Invocation) render(v Value) string { return in.scope.Extras().Render(v) }
