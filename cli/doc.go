// Package cli contains the command line interface for egg.
//
// # Usage
//
//	egg [flags] [run] [file ...]        run scripts; "-" or nothing reads stdin
//	egg eval 'sum(1, 2)' ...            evaluate arguments, print each value
//	egg ast --format yaml script.egg    print the syntax tree
//	egg repl [file]                     interactive session
//	egg init [--force]                  write the configuration file
//
// # Configuration
//
// Flags may also be set in config.yaml in the user configuration directory
// (e.g. ~/.config/egg/config.yaml). Keys are flag names; see [loadYAML].
// "egg init" writes the current settings there.
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, none, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize output
//
// # Profiling Options
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/egg/pprof)
//
// These flags are only available when built with the pprof build tag:
//
//	go build -tags pprof -o egg .
package cli
