package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/egg/lang"
)

// Eval evaluates source text given as arguments and prints the value of each
// top-level expression.
type Eval struct {
	Source []string `arg:"" help:"Source text; each argument runs in the same interpreter" name:"source"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in := newInterpreter(ctx)
	out := streamsFrom(ctx).out

	for i, src := range e.Source {
		vals, err := in.Run(ctx, src)
		if err != nil {
			return lang.WrapError(err).
				With(
					slog.String("command", "eval"),
					slog.String("argument", strconv.Itoa(i+1)),
				)
		}

		for _, v := range vals {
			fmt.Fprintln(out, in.Scope().Extras().Render(v))
		}
	}

	return nil
}
