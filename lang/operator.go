package lang

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Operator is a builtin callable.
//
// Eval receives its arguments unevaluated through the [Invocation] and
// evaluates only what its semantics require. The argument count is checked
// against Min and Max before Eval runs; a negative Max means no upper bound.
type Operator struct {
	Eval    func(*Invocation) (Value, error)
	Name    string
	Doc     string
	Aliases []string
	Params  []string // parameter names for signature hints; "..." prefix marks a rest parameter
	Min     int
	Max     int
}

// Signature renders the operator as name(a, b, ...rest).
func (op *Operator) Signature() string {
	return op.Name + "(" + strings.Join(op.Params, ", ") + ")"
}

func (op *Operator) checkArity(n int, at Position) error {
	if n >= op.Min && (op.Max < 0 || n <= op.Max) {
		return nil
	}

	var want string

	switch {
	case op.Max < 0:
		want = "at least " + strconv.Itoa(op.Min)
	case op.Min == op.Max:
		want = strconv.Itoa(op.Min)
	default:
		want = fmt.Sprintf("%d to %d", op.Min, op.Max)
	}

	return ErrInvalidFunctionCall.
		With(
			slog.String("operator", op.Name),
			slog.Int("args", n),
			slog.Any(positionKey, at),
		).
		Detail(fmt.Sprintf("%s expects %s argument(s), got %d", op.Signature(), want, n))
}

// Registry maps names to operators. Aliases resolve to the same operator.
type Registry struct {
	ops map[string]*Operator
}

// NewRegistry returns a registry holding ops.
func NewRegistry(ops ...*Operator) *Registry {
	r := &Registry{ops: make(map[string]*Operator, len(ops))}

	for _, op := range ops {
		r.Register(op)
	}

	return r
}

// Register adds op under its name and aliases, replacing any operator
// previously registered under those names.
func (r *Registry) Register(op *Operator) {
	r.ops[op.Name] = op

	for _, alias := range op.Aliases {
		r.ops[alias] = op
	}
}

// Lookup returns the operator registered under name.
func (r *Registry) Lookup(name string) (*Operator, bool) {
	if r == nil {
		return nil, false
	}

	op, ok := r.ops[name]

	return op, ok
}

// Names returns every registered name, aliases included, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.ops))
}

// Operators returns each distinct operator once, sorted by name.
func (r *Registry) Operators() []*Operator {
	seen := make(map[*Operator]struct{}, len(r.ops))
	ops := make([]*Operator, 0, len(r.ops))

	for _, op := range r.ops {
		if _, ok := seen[op]; ok {
			continue
		}

		seen[op] = struct{}{}
		ops = append(ops, op)
	}

	slices.SortFunc(ops, func(a, b *Operator) int {
		return strings.Compare(a.Name, b.Name)
	})

	return ops
}

// Invocation is the argument list of one builtin call together with the
// scope it runs in.
type Invocation struct {
	ctx    context.Context //nolint:containedctx // scoped to a single call
	interp *Interpreter
	scope  *Scope
	op     *Operator
	args   []Expr
	at     Position
}

// Context returns the context of the running evaluation.
func (in *Invocation) Context() context.Context { return in.ctx }

// Interpreter returns the interpreter evaluating the call.
func (in *Invocation) Interpreter() *Interpreter { return in.interp }

// Scope returns the frame the call is evaluated in.
func (in *Invocation) Scope() *Scope { return in.scope }

// Args returns the unevaluated argument expressions.
func (in *Invocation) Args() []Expr { return in.args }

// Len returns the number of arguments.
func (in *Invocation) Len() int { return len(in.args) }

// Eval evaluates argument i in the call's scope.
func (in *Invocation) Eval(i int) (Value, error) {
	return in.interp.Eval(in.ctx, in.args[i], in.scope)
}

// EvalAll evaluates every argument in order.
func (in *Invocation) EvalAll() ([]Value, error) {
	vals := make([]Value, len(in.args))

	for i := range in.args {
		v, err := in.Eval(i)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

// Number evaluates argument i and requires a Number.
func (in *Invocation) Number(i int) (float64, error) {
	v, err := in.Eval(i)
	if err != nil {
		return 0, err
	}

	n, ok := v.Number()
	if !ok {
		return 0, in.kindComplaint(i, KindNumber, v)
	}

	return n, nil
}

// Bool evaluates argument i and requires a Boolean.
func (in *Invocation) Bool(i int) (bool, error) {
	v, err := in.Eval(i)
	if err != nil {
		return false, err
	}

	b, ok := v.Bool()
	if !ok {
		return false, in.kindComplaint(i, KindBoolean, v)
	}

	return b, nil
}

// Text evaluates argument i and requires a String.
func (in *Invocation) Text(i int) (string, error) {
	v, err := in.Eval(i)
	if err != nil {
		return "", err
	}

	s, ok := v.Text()
	if !ok {
		return "", in.kindComplaint(i, KindString, v)
	}

	return s, nil
}

// Truthy evaluates argument i and applies truthiness coercion.
func (in *Invocation) Truthy(i int) (bool, error) {
	v, err := in.Eval(i)
	if err != nil {
		return false, err
	}

	t, ok := v.Truthy()
	if !ok {
		return false, in.Complain(fmt.Sprintf(
			"expects a Boolean or a Number as argument %d, got %s", i+1, v.Kind()))
	}

	return t, nil
}

// Name returns argument i as a binding name without evaluating it. Bare
// words and string literals are accepted.
func (in *Invocation) Name(i int) (string, error) {
	name, ok := wordName(in.args[i])
	if !ok {
		return "", in.Complain(fmt.Sprintf(
			"expects a name as argument %d, got %s", i+1, in.args[i]))
	}

	return name, nil
}

// Complain returns an [ErrOperatorComplaint] for this call.
func (in *Invocation) Complain(reason string) *Error {
	return ErrOperatorComplaint.
		With(
			slog.String("operator", in.op.Name),
			slog.Any(positionKey, in.at),
		).
		Detail(in.op.Name + " " + reason)
}

func (in *Invocation) kindComplaint(i int, want Kind, got Value) *Error {
	return in.Complain(fmt.Sprintf(
		"expects a %s as argument %d, got %s", want, i+1, got.Kind()))
}

func positionAttr(at Position) slog.Attr { return slog.Any(positionKey, at) }
