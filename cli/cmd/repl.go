package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/egg/cli/cmd/repl"
	"github.com/ardnew/egg/lang"
	"github.com/ardnew/egg/log"
)

// historyFile is the base name of the REPL history file in the cache
// directory.
const historyFile = "history.egg"

// REPL starts an interactive session.
type REPL struct {
	File string `arg:"" help:"Script to run before the first prompt" name:"file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := repl.Config{
		Options: append([]lang.Option{lang.WithLogger(log.Default())}, optionsFrom(ctx)...),
		Logger:  log.Default(),
	}

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			cfg.HistoryPath = filepath.Join(dir, historyFile)
		}
	}

	if r.File != "" {
		srcs, err := Sources([]string{r.File})
		if err != nil {
			return err
		}

		for _, src := range srcs {
			text, err := src.Read(streamsFrom(ctx).in)
			if err != nil {
				return err
			}

			cfg.Preload += text
		}
	}

	return repl.Run(ctx, cfg)
}
