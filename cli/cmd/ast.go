package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/egg/lang"
	"github.com/ardnew/egg/log"
)

// AST prints the syntax tree, or the token stream, of a script.
type AST struct {
	File string `arg:"" default:"-" help:"Script file or '-' for stdin" name:"file" type:"existingfile"`

	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})" short:"f"`
	Indent int    `default:"2"                          help:"Indent width; 0 prints compactly" short:"i"`
	Tokens bool   `help:"Print tokens instead of the syntax tree" short:"t"`
}

// formatter is implemented by [lang.Tree] and [lang.Tokens].
type formatter interface {
	Format(ctx context.Context, w io.Writer, indent int) error
	FormatJSON(ctx context.Context, w io.Writer, indent int) error
	FormatYAML(ctx context.Context, w io.Writer, indent int) error
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := Sources([]string{a.File})
	if err != nil {
		return err
	}

	if len(srcs) == 0 {
		return ErrNoSource
	}

	text, err := srcs[0].Read(streamsFrom(ctx).in)
	if err != nil {
		return err
	}

	var f formatter

	if a.Tokens {
		tokens, err := lang.LexContext(ctx, text, lang.WithLogger(log.Default()))
		if err != nil {
			return lang.WrapError(err).With(slog.String("command", "ast"))
		}

		f = lang.Tokens(tokens)
	} else {
		tree, err := newInterpreter(ctx).Parse(ctx, text)
		if err != nil {
			return lang.WrapError(err).With(slog.String("command", "ast"))
		}

		f = lang.Tree(tree)
	}

	return a.write(ctx, streamsFrom(ctx).out, f)
}

func (a *AST) write(ctx context.Context, w io.Writer, f formatter) error {
	switch a.Format {
	case "text", "":
		return f.Format(ctx, w, a.Indent)

	case "json":
		if err := f.FormatJSON(ctx, w, a.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		if err := f.FormatYAML(ctx, w, a.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		return ErrUnknownFormat.With(slog.String("format", a.Format))
	}

	return nil
}
