package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/egg/log"
)

// watchDebounce is how long writes must settle before a rerun.
const watchDebounce = 100 * time.Millisecond

// watch calls rerun each time one of the regular-file sources is written,
// until ctx is done.
// Parent directories are watched and events for other files ignored.
func (r *Run) watch(ctx context.Context, sources []Source, rerun func()) error {
	files := make(map[string]struct{})
	dirs := make(map[string]struct{})

	for _, src := range sources {
		if src.IsStdin() {
			continue
		}

		files[src.Path] = struct{}{}
		dirs[filepath.Dir(src.Path)] = struct{}{}
	}

	if len(files) == 0 {
		return ErrWatch.Wrap(ErrNoSource)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return ErrWatch.With(slog.String("dir", dir)).Wrap(err)
		}
	}

	log.InfoContext(ctx, "watching sources", slog.Int("files", len(files)))

	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if _, ok := files[filepath.Clean(event.Name)]; !ok {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()),
			)

			settle = time.After(watchDebounce)

		case <-settle:
			settle = nil

			rerun()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watcher error", slog.Any("error", err))
		}
	}
}
