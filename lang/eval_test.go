package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/egg/log"
)

// harness is an interpreter with captured console output.
type harness struct {
	in  *Interpreter
	out *bytes.Buffer
}

func newHarness(stdin string, opts ...Option) *harness {
	out := new(bytes.Buffer)
	console := WithConsole(NewConsole(strings.NewReader(stdin), out))

	return &harness{in: New(append([]Option{console}, opts...)...), out: out}
}

// last runs src and returns the value of its final expression.
func (h *harness) last(ctx context.Context, src string) (Value, error) {
	vals, err := h.in.Run(ctx, src)
	if err != nil || len(vals) == 0 {
		return Nil(), err
	}

	return vals[len(vals)-1], nil
}

func TestEval_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   Value
		output string
	}{
		{"nested_arithmetic", "sum(1, multiply(2, 5))", Number(11), ""},
		{"conditional", `if(greater_than(10, 5), "yes", "no")`, String("yes"), ""},
		{"define_set", "do(define(x, 1), set(x, add(x, 1)), x)", Number(2), ""},
		{"repeat_print", `repeat(3, print("hi"))`, Nil(), "hihihi"},
		{"map_get", `new_map("m") map_insert("m", "k", 1) map_get("m", "k")`, Number(1), ""},
		{"literal_number", "42", Number(42), ""},
		{"literal_string", `"hi"`, String("hi"), ""},
		{"literal_boolean", "True", Boolean(true), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("")

			got, err := h.last(t.Context(), tt.src)
			if err != nil {
				t.Fatal(err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}

			if h.out.String() != tt.output {
				t.Errorf("output = %q, want %q", h.out.String(), tt.output)
			}
		})
	}
}

func TestEval_MapMissingKey(t *testing.T) {
	h := newHarness("")

	got, err := h.last(t.Context(), `new_map("m") map_get("m", "missing")`)
	if err != nil || !got.IsNil() {
		t.Errorf("got (%#v, %v), want Nil", got, err)
	}
}

func TestEval_UnbalancedPosition(t *testing.T) {
	_, err := newHarness("").in.Run(t.Context(), "sum(1, 2")
	if !errors.Is(err, ErrUnbalancedBrackets) {
		t.Fatalf("error = %v, want %v", err, ErrUnbalancedBrackets)
	}

	if pos, _ := errPosition(err); pos.Offset != 3 {
		t.Errorf("position = %+v, want offset 3", pos)
	}
}

func TestEval_Scoping(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Value
	}{
		{
			name: "local_define_invisible",
			src:  "define(f, fn(do(define(inner, 1), inner))) f() exists(inner)",
			want: Boolean(false),
		},
		{
			name: "set_mutates_enclosing",
			src:  "define(c, 0) define(inc, fn(set(c, add(c, 1)))) inc() inc() c",
			want: Number(2),
		},
		{
			name: "parameter_shadows",
			src:  "define(x, 1) define(g, fn(x, sum(x, 10))) g(5) x",
			want: Number(1),
		},
		{
			name: "parameter_value",
			src:  "define(g, fn(x, sum(x, 10))) g(5)",
			want: Number(15),
		},
		{
			name: "caller_frame_visible",
			src:  "define(show, fn(secret)) define(wrap, fn(secret, show())) wrap(7)",
			want: Number(7),
		},
		{
			name: "recursion",
			src: "define(fact, fn(n, if(less_than(n, 2), 1, multiply(n, fact(subtract(n, 1)))))) " +
				"fact(5)",
			want: Number(120),
		},
		{
			name: "arguments_in_caller_scope",
			src:  "define(y, 3) define(id, fn(v, v)) id(sum(y, 1))",
			want: Number(4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newHarness("").last(t.Context(), tt.src)
			if err != nil {
				t.Fatal(err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEval_CascadingDelete(t *testing.T) {
	h := newHarness("")

	vals, err := h.in.Run(t.Context(), "define(f, fn(x, x)) delete(f) define(g, fn(y, y))")
	if err != nil {
		t.Fatal(err)
	}

	if vals[0] != vals[1] {
		t.Errorf("delete returned %v, want %v", vals[1], vals[0])
	}

	if vals[2] == vals[0] {
		t.Errorf("function index %v reused", vals[2])
	}

	if _, ok := h.in.Scope().Extras().Function(vals[0]); ok {
		t.Error("deleted function still registered")
	}

	if _, err := h.in.Run(t.Context(), "f(1)"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("call after delete error = %v", err)
	}

	// An alias of a deleted function refers to nothing.
	_, err = h.in.Run(t.Context(), "define(a, fn(x, x)) define(b, a) delete(a) b(1)")
	if !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("call through alias error = %v", err)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"undefined_word", "nothing", ErrUndefinedBinding},
		{"undefined_function", "nothing(1)", ErrFunctionNotFound},
		{"not_a_function", "define(n, 1) n()", ErrFunctionNotFound},
		{"user_arity", "define(f, fn(a, b, a)) f(1)", ErrInvalidFunctionCall},
		{"builtin_arity_short", "subtract(1)", ErrInvalidFunctionCall},
		{"builtin_arity_long", "not(True, False)", ErrInvalidFunctionCall},
		{"if_arity", "if(True)", ErrInvalidFunctionCall},
		{"unknown_token", "\"open", ErrUnknownToken},
		{"redefine", "define(x, 1) define(x, 2)", ErrAlreadyDefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHarness("").in.Run(t.Context(), tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEval_IterationLimit(t *testing.T) {
	tests := []struct {
		src  string
		fail bool
	}{
		{"repeat(5, 1)", false},
		{"repeat(6, 1)", true},
		{"repeat(-2, 1)", false},
		{"define(i, 0) while(less_than(i, 5), set(i, add(i, 1)))", false},
		{"while(true, 1)", true},
	}

	for _, tt := range tests {
		_, err := newHarness("", WithMaxIterations(5)).in.Run(t.Context(), tt.src)

		if got := errors.Is(err, ErrIterationLimit); got != tt.fail {
			t.Errorf("%q: error = %v, want limit exceeded = %v", tt.src, err, tt.fail)
		}

		if !tt.fail && err != nil {
			t.Errorf("%q: %v", tt.src, err)
		}
	}
}

func TestEval_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	for _, src := range []string{"while(true, 1)", "sleep(10000)"} {
		_, err := newHarness("").in.Run(ctx, src)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%q: error = %v, want %v", src, err, context.Canceled)
		}
	}
}

func TestEval_Evaluations(t *testing.T) {
	h := newHarness("")

	if _, err := h.in.Run(t.Context(), "sum(1, 2)"); err != nil {
		t.Fatal(err)
	}

	if n := h.in.Evaluations(); n != 3 {
		t.Errorf("evaluations = %d, want 3", n)
	}

	h.in.ResetEvaluations()

	if h.in.Evaluations() != 0 {
		t.Error("counter not reset")
	}
}

func TestEval_SharedScope(t *testing.T) {
	scope := NewScope()
	_ = scope.Insert("base", Number(40))

	in := New(WithScope(scope))

	vals, err := in.Run(t.Context(), "sum(base, 2)")
	if err != nil {
		t.Fatal(err)
	}

	if !vals[0].Equal(Number(42)) {
		t.Errorf("got %v, want 42", vals[0])
	}

	if scope.Exists("true") {
		t.Error("default globals added to a supplied scope")
	}
}

func TestEval_QueriesDoNotMutate(t *testing.T) {
	h := newHarness("")

	setup := `define(x, 1) define(f, fn(a, a)) new_map("m") map_insert("m", "k", 2)`
	if _, err := h.in.Run(t.Context(), setup); err != nil {
		t.Fatal(err)
	}

	type state struct {
		names     []string
		functions int
		maps      int
		size      Value
	}

	snapshot := func() state {
		t.Helper()

		size, err := h.last(t.Context(), `map_size("m")`)
		if err != nil {
			t.Fatal(err)
		}

		functions, maps := h.in.Scope().Extras().Len()

		return state{h.in.Scope().Names(), functions, maps, size}
	}

	before := snapshot()

	queries := []struct {
		src  string
		want Value
	}{
		{"exists(x)", Boolean(true)},
		{"exists(missing)", Boolean(false)},
		{`exists("missing")`, Boolean(false)},
		{`map_has("m", "k")`, Boolean(true)},
		{`map_has("m", "missing")`, Boolean(false)},
		{`map_has("m", 7)`, Boolean(false)},
	}

	for range 3 {
		for _, q := range queries {
			got, err := h.last(t.Context(), q.src)
			if err != nil {
				t.Fatalf("%s: %v", q.src, err)
			}

			if !got.Equal(q.want) {
				t.Errorf("%s = %v, want %v", q.src, got, q.want)
			}
		}
	}

	after := snapshot()

	if !slices.Equal(before.names, after.names) {
		t.Errorf("names changed: %v -> %v", before.names, after.names)
	}

	if before.functions != after.functions || before.maps != after.maps {
		t.Errorf("extras changed: (%d, %d) -> (%d, %d)",
			before.functions, before.maps, after.functions, after.maps)
	}

	if !before.size.Equal(after.size) {
		t.Errorf("map size changed: %v -> %v", before.size, after.size)
	}
}

func TestEval_CallTrace(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		want  bool
	}{
		{"trace", log.LevelTrace, true},
		{"debug", log.LevelDebug, false},
		{"info", log.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := log.Make(&buf, log.WithLevel(tt.level), log.WithPretty(false))
			h := newHarness("", WithLogger(logger))

			got, err := h.last(t.Context(), "define(twice, fn(n, multiply(n, 2))) twice(4)")
			if err != nil {
				t.Fatal(err)
			}

			if !got.Equal(Number(8)) {
				t.Errorf("got %v, want 8", got)
			}

			if logged := strings.Contains(buf.String(), `"msg":"call"`); logged != tt.want {
				t.Errorf("call logged = %v, want %v: %q", logged, tt.want, buf.String())
			}
		})
	}
}
