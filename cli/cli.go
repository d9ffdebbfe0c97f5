package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/egg/cli/cmd"
	"github.com/ardnew/egg/lang"
	"github.com/ardnew/egg/pkg"
)

// CLI is the top-level command-line interface for egg.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxIterations int              `default:"${maxIterations}" help:"Maximum iterations of one while or repeat loop; 0 is the built-in limit." placeholder:"N"`
	Version       kong.VersionFlag `help:"Print version and exit."                                                                                    short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run script files (default command)"`
	Eval cmd.Eval `cmd:""                   help:"Evaluate source text given as arguments"`
	AST  cmd.AST  `cmd:"" name:"ast"         help:"Print the syntax tree or tokens of a script"`
	REPL cmd.REPL `cmd:"" name:"repl"        help:"Start an interactive session"`
	Init cmd.Init `cmd:""                   help:"Write the current settings to the configuration file"`
}

// Run executes the egg CLI with the given context and arguments.
// The exit function is called with the appropriate exit code by kong when
// it exits early, e.g. after --help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version(),
		"maxIterations":      strconv.Itoa(lang.DefaultMaxIterations),
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, lang.WithMaxIterations(cli.MaxIterations))

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
