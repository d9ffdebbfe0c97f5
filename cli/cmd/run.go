package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/egg/lang"
	"github.com/ardnew/egg/log"
)

// Run executes script files in order with one interpreter, so definitions
// made by earlier files are visible to later ones.
type Run struct {
	Files []string `arg:"" help:"Script files or '-' for stdin (default)" name:"file" optional:"" type:"existingfile"`

	Print bool `help:"Print the value of each top-level expression"  short:"p"`
	Stats bool `help:"Log evaluation count and elapsed time"          short:"s"`
	Watch bool `help:"Run again whenever a script file is written"    short:"w"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := r.Files
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	sources, err := Sources(names)
	if err != nil {
		return err
	}

	load := r.loader(ctx, sources)

	err = r.once(ctx, load)
	if !r.Watch {
		return err
	}

	if err != nil {
		log.ErrorContext(ctx, "run failed", slog.Any("error", err))
	}

	return r.watch(ctx, sources, func() {
		if err := r.once(ctx, load); err != nil {
			log.ErrorContext(ctx, "run failed", slog.Any("error", err))
		}
	})
}

type script struct {
	name string
	text string
}

// loader returns a function reading every source. Standard input can only
// be consumed once, so its text is kept for later runs.
func (r *Run) loader(ctx context.Context, sources []Source) func() ([]script, error) {
	var stdin *string

	return func() ([]script, error) {
		scripts := make([]script, 0, len(sources))

		for _, src := range sources {
			if src.IsStdin() && stdin != nil {
				scripts = append(scripts, script{src.Name, *stdin})

				continue
			}

			text, err := src.Read(streamsFrom(ctx).in)
			if err != nil {
				return nil, err
			}

			if src.IsStdin() {
				stdin = &text
			}

			scripts = append(scripts, script{src.Name, text})
		}

		return scripts, nil
	}
}

// once runs every source through a fresh interpreter.
func (r *Run) once(ctx context.Context, load func() ([]script, error)) error {
	scripts, err := load()
	if err != nil {
		return err
	}

	in := newInterpreter(ctx)
	out := streamsFrom(ctx).out
	start := time.Now()

	for _, s := range scripts {
		log.TraceContext(ctx, "run source", slog.String("source", s.name))

		vals, err := in.Run(ctx, s.text)
		if err != nil {
			return lang.WrapError(err).With(slog.String("source", s.name))
		}

		if r.Print {
			for _, v := range vals {
				fmt.Fprintln(out, in.Scope().Extras().Render(v))
			}
		}
	}

	if r.Stats {
		functions, maps := in.Scope().Extras().Len()

		log.InfoContext(ctx, "run complete",
			slog.Int("sources", len(scripts)),
			slog.Uint64("evaluations", in.Evaluations()),
			slog.Int("functions", functions),
			slog.Int("maps", maps),
			slog.Duration("elapsed", time.Since(start)),
		)
	}

	return nil
}
