// Package profile starts optional runtime profiling of the egg command.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof
//	egg --pprof-mode cpu run script.egg
//	go tool pprof -http=: ~/.cache/egg/pprof/cpu.pprof
//
// Without the tag, [Profiler.Start] is a no-op and [Modes] is empty.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
