package cmd

import (
	"context"
	"io"
	"os"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/egg/lang"
	"github.com/ardnew/egg/log"
)

type (
	contextKey struct{}
	optionsKey struct{}
	streamsKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context whose interpreters are created
// with opts in addition to any options already stored in ctx.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{},
		slices.Concat(optionsFrom(ctx), opts))
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

type streams struct {
	in  io.Reader
	out io.Writer
}

// WithStreams returns a new context.Context whose commands read script input
// from in and write results to out. A nil stream keeps the current one.
func WithStreams(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	s := streamsFrom(ctx)

	if in != nil {
		s.in = in
	}

	if out != nil {
		s.out = out
	}

	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) streams {
	if s, ok := ctx.Value(streamsKey{}).(streams); ok {
		return s
	}

	return streams{in: os.Stdin, out: os.Stdout}
}

// newInterpreter creates an interpreter attached to the context's streams
// and configured with the context's options, then opts.
func newInterpreter(ctx context.Context, opts ...lang.Option) *lang.Interpreter {
	s := streamsFrom(ctx)

	base := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithConsole(lang.NewConsole(s.in, s.out)),
	}

	return lang.New(slices.Concat(base, optionsFrom(ctx), opts)...)
}
