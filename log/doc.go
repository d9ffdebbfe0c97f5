// Package log is a small leveled logger built on [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("script loaded", slog.String("path", path))
//
// Besides the slog levels there is [LevelTrace], used by the interpreter for
// per-call output. Output is JSON or text, optionally colorized with
// [WithPretty].
//
// The zero Logger discards everything. Package-level functions such as
// [Info] log through a default logger that [Config] reconfigures.
package log
