// Package cmd implements the egg subcommands: run, eval, ast, init and repl.
//
// Commands receive their environment through the [context.Context] that kong
// binds: the parsed [kong.Context] ([WithContext]), the interpreter options
// chosen by global flags ([WithOptions]) and the standard streams
// ([WithStreams]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
