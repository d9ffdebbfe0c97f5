package lang

import (
	"errors"
	"testing"
)

// errPosition returns the position attribute recorded on err.
func errPosition(err error) (Position, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return Position{}, false
	}

	for _, a := range e.Attrs() {
		if a.Key == positionKey {
			pos, ok := a.Value.Any().(Position)

			return pos, ok
		}
	}

	return Position{}, false
}

func TestParse_Resolution(t *testing.T) {
	exprs, err := ParseString("sum(1, x) double(2)", Builtins())
	if err != nil {
		t.Fatal(err)
	}

	if len(exprs) != 2 {
		t.Fatalf("got %d expressions, want 2", len(exprs))
	}

	sum, ok := exprs[0].(*Call)
	if !ok {
		t.Fatalf("expr[0] is %T, want *Call", exprs[0])
	}

	if sum.Callee.Deferred() || sum.Callee.Operator.Name != "sum" {
		t.Errorf("sum not bound to the builtin: %+v", sum.Callee)
	}

	if _, ok := sum.Args[0].(*Literal); !ok {
		t.Errorf("arg 0 is %T, want *Literal", sum.Args[0])
	}

	if w, ok := sum.Args[1].(*Word); !ok || w.Name != "x" {
		t.Errorf("arg 1 = %v, want word x", sum.Args[1])
	}

	user, _ := exprs[1].(*Call)
	if user == nil || !user.Callee.Deferred() || user.Callee.Name != "double" {
		t.Errorf("double should be deferred: %+v", exprs[1])
	}
}

func TestParse_Alias(t *testing.T) {
	exprs, err := ParseString("add(1)", Builtins())
	if err != nil {
		t.Fatal(err)
	}

	if c := exprs[0].(*Call); c.Callee.Operator == nil || c.Callee.Operator.Name != "sum" {
		t.Errorf("add resolved to %+v, want sum", c.Callee)
	}
}

func TestParse_NilResolver(t *testing.T) {
	exprs, err := ParseString("sum(1)", nil)
	if err != nil {
		t.Fatal(err)
	}

	if !exprs[0].(*Call).Callee.Deferred() {
		t.Error("call resolved without a resolver")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, src := range []string{
		"a(b(c), d)",
		`concat("x", "y")`,
		"f()",
		"1 True x",
		"outer(inner(deep(1.5)))",
	} {
		exprs, err := ParseString(src, Builtins())
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}

		got := ""
		for i, e := range exprs {
			if i > 0 {
				got += " "
			}

			got += e.String()
		}

		if got != src {
			t.Errorf("round trip of %q = %q", src, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
		at   Position
	}{
		{"sum(1, 2", ErrUnbalancedBrackets, Position{Offset: 3, Line: 1, Column: 4}},
		{"x\n  f(g(1)", ErrUnbalancedBrackets, Position{Offset: 5, Line: 2, Column: 4}},
		{"sum(1))", ErrUnbalancedBrackets, Position{Offset: 6, Line: 1, Column: 7}},
		{"(1 2)", ErrParser, Position{Offset: 0, Line: 1, Column: 1}},
		{"1(2)", ErrParser, Position{Offset: 0, Line: 1, Column: 1}},
		{`"s"(1)`, ErrParser, Position{Offset: 0, Line: 1, Column: 1}},
	}

	for _, tt := range tests {
		_, err := ParseString(tt.src, Builtins())
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: error = %v, want %v", tt.src, err, tt.want)

			continue
		}

		if pos, ok := errPosition(err); !ok || pos != tt.at {
			t.Errorf("%q: position = %+v (%v), want %+v", tt.src, pos, ok, tt.at)
		}
	}
}
