package lang

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/ardnew/egg/log"
)

// DefaultMaxIterations bounds the number of iterations of a single while or
// repeat loop.
const DefaultMaxIterations = 1_000_000

// Interpreter evaluates expressions against one global scope.
//
// An Interpreter is not safe for concurrent use. Hosts running scripts in
// parallel create one Interpreter per run.
type Interpreter struct {
	logger   log.Logger
	registry *Registry
	scope    *Scope
	console  Console
	maxIter  int
	evals    uint64
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithRegistry sets the builtin operators known to the parser and evaluator.
func WithRegistry(r *Registry) Option {
	return func(in *Interpreter) { in.registry = r }
}

// WithConsole sets the console used by print, println and readline.
func WithConsole(c Console) Option {
	return func(in *Interpreter) { in.console = c }
}

// WithMaxIterations sets the loop iteration ceiling. Non-positive values
// select [DefaultMaxIterations].
func WithMaxIterations(n int) Option {
	return func(in *Interpreter) {
		if n <= 0 {
			n = DefaultMaxIterations
		}

		in.maxIter = n
	}
}

// WithScope evaluates against an existing global scope instead of a new one.
// The scope is used as given; default globals are not added.
func WithScope(s *Scope) Option {
	return func(in *Interpreter) { in.scope = s }
}

// New returns an interpreter with the builtin operators, a fresh global
// scope holding the default globals and a console on the process stdio.
func New(opts ...Option) *Interpreter {
	return applyOptions(applyDefaults(new(Interpreter)), opts...)
}

func applyDefaults(in *Interpreter) *Interpreter {
	in.registry = Builtins()
	in.console = NewConsole(os.Stdin, os.Stdout)
	in.maxIter = DefaultMaxIterations
	in.scope = NewScope()

	for name, v := range defaultGlobals() {
		_ = in.scope.Insert(name, v)
	}

	return in
}

func applyOptions(in *Interpreter, opts ...Option) *Interpreter {
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}

	return in
}

// Registry returns the operators known to the interpreter.
func (in *Interpreter) Registry() *Registry { return in.registry }

// Scope returns the global scope.
func (in *Interpreter) Scope() *Scope { return in.scope }

// Console returns the console used by the I/O builtins.
func (in *Interpreter) Console() Console { return in.console }

// Logger returns the interpreter's logger.
func (in *Interpreter) Logger() log.Logger { return in.logger }

// MaxIterations returns the loop iteration ceiling.
func (in *Interpreter) MaxIterations() int { return in.maxIter }

// Evaluations returns the number of expression nodes evaluated so far.
func (in *Interpreter) Evaluations() uint64 { return in.evals }

// ResetEvaluations zeroes the evaluation counter.
func (in *Interpreter) ResetEvaluations() { in.evals = 0 }

// Parse lexes and parses source, resolving builtin call targets against the
// interpreter's registry.
func (in *Interpreter) Parse(ctx context.Context, source string) ([]Expr, error) {
	tokens, err := LexContext(ctx, source, WithLogger(in.logger))
	if err != nil {
		return nil, err
	}

	exprs, err := Parse(tokens, in.registry)
	if err != nil {
		return nil, err
	}

	in.logger.TraceContext(ctx, "parse complete",
		slog.Int("tokens", len(tokens)),
		slog.Int("expressions", len(exprs)))

	return exprs, nil
}

// Run parses source and evaluates each top-level expression in the global
// scope. It returns every value, or the first error.
func (in *Interpreter) Run(ctx context.Context, source string) ([]Value, error) {
	exprs, err := in.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	return in.RunExprs(ctx, exprs)
}

// RunExprs evaluates parsed expressions in order in the global scope.
func (in *Interpreter) RunExprs(ctx context.Context, exprs []Expr) ([]Value, error) {
	vals := make([]Value, 0, len(exprs))

	for _, e := range exprs {
		v, err := in.Eval(ctx, e, in.scope)
		if err != nil {
			return vals, err
		}

		vals = append(vals, v)
	}

	in.logger.TraceContext(ctx, "run complete",
		slog.Int("expressions", len(exprs)),
		slog.Uint64("evaluations", in.evals),
		valuesAttr("values", vals))

	return vals, nil
}

// Eval evaluates one expression in scope.
func (in *Interpreter) Eval(ctx context.Context, e Expr, scope *Scope) (Value, error) {
	in.evals++

	switch n := e.(type) {
	case *Literal:
		return n.Value, nil

	case *Word:
		v, ok := scope.Get(n.Name)
		if !ok {
			return Nil(), ErrUndefinedBinding.With(
				slog.String(nameKey, n.Name),
				slog.Any(positionKey, n.At),
			)
		}

		return v, nil

	case *Call:
		if n.Callee.Deferred() {
			return in.callFunction(ctx, n, scope)
		}

		return in.callOperator(ctx, n, scope)

	default:
		return Nil(), ErrParser.Detail("unknown expression node")
	}
}

func (in *Interpreter) callOperator(ctx context.Context, c *Call, scope *Scope) (Value, error) {
	op := c.Callee.Operator

	if err := op.checkArity(len(c.Args), c.At); err != nil {
		return Nil(), err
	}

	return op.Eval(&Invocation{
		ctx:    ctx,
		interp: in,
		scope:  scope,
		op:     op,
		args:   c.Args,
		at:     c.At,
	})
}

// callFunction resolves a deferred callee to a user function, evaluates the
// arguments in the caller's scope and evaluates the body in a child frame of
// the caller.
func (in *Interpreter) callFunction(ctx context.Context, c *Call, scope *Scope) (Value, error) {
	name := c.Callee.Name

	ref, ok := scope.Get(name)
	if !ok || ref.Kind() != KindFunction {
		return Nil(), ErrFunctionNotFound.With(
			slog.String(nameKey, name),
			slog.Any(positionKey, c.At),
		)
	}

	def, ok := scope.Extras().Function(ref)
	if !ok {
		return Nil(), ErrFunctionNotFound.
			With(
				slog.String(nameKey, name),
				slog.Any(positionKey, c.At),
			).
			Detail("function was deleted")
	}

	if len(c.Args) != len(def.Params) {
		return Nil(), ErrInvalidFunctionCall.
			With(
				slog.String(nameKey, name),
				slog.Int("args", len(c.Args)),
				slog.Any(positionKey, c.At),
			).
			Detail(name + " expects " + plural(len(def.Params), "argument"))
	}

	args := make([]Value, len(c.Args))

	for i, arg := range c.Args {
		v, err := in.Eval(ctx, arg, scope)
		if err != nil {
			return Nil(), err
		}

		args[i] = v
	}

	return in.invoke(ctx, name, def, args, scope)
}

func (in *Interpreter) invoke(
	ctx context.Context,
	name string,
	def *FunctionDef,
	args []Value,
	scope *Scope,
) (Value, error) {
	bindings := make(map[string]Value, len(def.Params))
	for i, param := range def.Params {
		bindings[param] = args[i]
	}

	local := scope.Child(bindings)

	if in.logger.Enabled(ctx, log.LevelTrace) {
		in.logger.TraceContext(ctx, "call",
			slog.String(nameKey, name),
			valuesAttr("args", args),
			scopeAttr(local))
	}

	return in.Eval(ctx, def.Body, local)
}

func plural(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}

	return s
}
