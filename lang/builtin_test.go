package lang

import (
	"errors"
	"testing"
)

type builtinCase struct {
	name string
	src  string
	want Value
	err  error
}

func runBuiltinCases(t *testing.T, tests []builtinCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newHarness("").last(t.Context(), tt.src)

			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuiltins_Arithmetic(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"sum_empty", "sum()", Number(0), nil},
		{"sum_many", "sum(1, 2, 3.5)", Number(6.5), nil},
		{"multiply_empty", "multiply()", Number(1), nil},
		{"subtract", "subtract(5, 7)", Number(-2), nil},
		{"divide", "divide(1, 4)", Number(0.25), nil},
		{"modulus", "modulus(7, 3)", Number(1), nil},
		{"sum_string", `sum(1, "2")`, Nil(), ErrOperatorComplaint},
		{"divide_arity", "divide(1, 2, 3)", Nil(), ErrInvalidFunctionCall},
	})
}

func TestBuiltins_Comparison(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"equals", "equals(1, 1)", Boolean(true), nil},
		{"equals_kinds", `equals("1", 1)`, Boolean(false), nil},
		{"not_equals", `not_equals("a", "b")`, Boolean(true), nil},
		{"greater_than", "greater_than(1, 2)", Boolean(false), nil},
		{"less_than", "less_than(1, 2)", Boolean(true), nil},
		{"less_than_string", `less_than("a", "b")`, Nil(), ErrOperatorComplaint},
		{"is_nil", "is_nil(nil)", Boolean(true), nil},
		{"is_nil_zero", "is_nil(0)", Boolean(false), nil},
		{"and", "and(True, False)", Boolean(false), nil},
		{"or", "or(False, true)", Boolean(true), nil},
		{"not", "not(False)", Boolean(true), nil},
		{"and_number", "and(1, True)", Nil(), ErrOperatorComplaint},
	})
}

func TestBuiltins_Control(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"do_empty", "do()", Nil(), nil},
		{"if_else", "if(0, 1, 2)", Number(2), nil},
		{"if_no_else", "if(False, 1)", Nil(), nil},
		{"if_lazy", `if(True, 1, panic("unreached"))`, Number(1), nil},
		{"if_string", `if("s", 1, 2)`, Nil(), ErrOperatorComplaint},
		{"while_zero", "while(False, 1)", Nil(), nil},
		{"repeat_last", "define(n, 0) repeat(4, set(n, add(n, 1))) n", Number(4), nil},
		{"assert_holds", `assert(True, panic("unreached"))`, Nil(), nil},
		{"assert_fails", `assert(equals(1, 2), "mismatch")`, Nil(), ErrAssertionFailed},
		{"panic", `panic("bye")`, Nil(), ErrPanic},
		{"sleep", "sleep(1)", Number(1), nil},
		{"sleep_negative", "sleep(-1)", Nil(), ErrOperatorComplaint},
	})
}

func TestBuiltins_Variables(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"define_returns_value", "define(a, 5)", Number(5), nil},
		{"define_string_name", `define("b", 1) b`, Number(1), nil},
		{"define_call_name", "define(sum(1), 1)", Nil(), ErrOperatorComplaint},
		{"set_returns_previous", "define(v, 1) set(v, 2)", Number(1), nil},
		{"set_undefined", "set(nope, 1)", Nil(), ErrUndefinedBinding},
		{"delete_returns_value", `define(d, "x") delete(d)`, String("x"), nil},
		{"exists_true", "define(e, nil) exists(e)", Boolean(true), nil},
		{"exists_default_global", "exists(true)", Boolean(true), nil},
		{"typeof_number", "typeof(1)", String(TagNumber), nil},
		{"typeof_nil", "typeof(nil)", String(TagNil), nil},
		{"typeof_function", "typeof(fn(1))", String(TagFunction), nil},
		{"typeof_object", "typeof(new_map())", String(TagObject), nil},
		{"typeof_constant", `equals(typeof("s"), STRING)`, Boolean(true), nil},
	})
}

func TestBuiltins_Conversion(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"str_number", "str(1.5)", String("1.5"), nil},
		{"str_boolean", "str(True)", String("True"), nil},
		{"str_nil", "str(nil)", String("Nil"), nil},
		{"num_string", `num(" 42 ")`, Number(42), nil},
		{"num_boolean", "num(True)", Number(1), nil},
		{"num_number", "num(3)", Number(3), nil},
		{"num_invalid", `num("x")`, Nil(), ErrConversion},
		{"num_nil", "num(nil)", Nil(), ErrConversion},
		{"calc_bindings", `define(w, 3) calc("w * 2 + 1")`, Number(7), nil},
		{"calc_compare", `calc("1 < 2")`, Boolean(true), nil},
		{"calc_invalid", `calc("1 +")`, Nil(), ErrConversion},
	})
}

func TestBuiltins_Strings(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"length", `length("héllo")`, Number(5), nil},
		{"length_alias", `string_length("ab")`, Number(2), nil},
		{"slice", `slice("hello", 1, 3)`, String("ell"), nil},
		{"slice_negative", `slice("hello", -3, 2)`, String("ll"), nil},
		{"slice_clamped", `slice("hi", 1, 10)`, String("i"), nil},
		{"slice_past_end", `slice("hi", 5, 2)`, String(""), nil},
		{"slice_huge_length", `slice("abc", 0, 1e20)`, String("abc"), nil},
		{"slice_huge_start", `slice("abc", 1e20, 1)`, String(""), nil},
		{"slice_huge_negative_start", `slice("abc", -1e20, 2)`, String("ab"), nil},
		{"slice_negative_length", `slice("abc", 1, -1e20)`, String(""), nil},
		{"concat", `concat("a", "b", "c")`, String("abc"), nil},
		{"concat_number", `concat("a", 1)`, Nil(), ErrOperatorComplaint},
		{"to_upper", `to_upper("abc")`, String("ABC"), nil},
		{"to_lower", `to_lower("ÀB")`, String("àb"), nil},
		{"trim", `trim("  x ")`, String("x"), nil},
		{"to_upper_alias", `string_to_upper("ab")`, String("AB"), nil},
		{"to_lower_alias", `string_to_lower("AB")`, String("ab"), nil},
	})
}

func TestBuiltins_Functions(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"no_params", "define(k, fn(7)) k()", Number(7), nil},
		{"literal_param", "fn(1, x)", Nil(), ErrInvalidFunctionDefinition},
		{"duplicate_param", "fn(a, a, a)", Nil(), ErrInvalidFunctionDefinition},
		{"no_body", "fn()", Nil(), ErrInvalidFunctionCall},
	})
}

func TestBuiltins_Maps(t *testing.T) {
	runBuiltinCases(t, []builtinCase{
		{"insert_previous", `new_map("m") map_insert("m", 1, "a") map_insert("m", 1, "b")`, String("a"), nil},
		{"size", `define(m, new_map()) map_insert(m, 1, 1) map_insert(m, 2, 2) map_size(m)`, Number(2), nil},
		{"has", `new_map("m") map_insert("m", nil, 1) map_has("m", nil)`, Boolean(true), nil},
		{"remove", `new_map("m") map_insert("m", "k", 9) map_remove("m", "k")`, Number(9), nil},
		{"remove_missing", `new_map("m") map_remove("m", "k")`, Nil(), nil},
		{"clear", `new_map("m") map_insert("m", 1, 1) map_clear("m") map_size("m")`, Number(0), nil},
		{"exists_map", `new_map("m") exists_map("m")`, Boolean(true), nil},
		{"delete_map", `new_map("m") delete_map("m") exists_map("m")`, Boolean(false), nil},
		{"duplicate_tag", `new_map("m") new_map("m")`, Nil(), ErrInvalidObjectReference},
		{"unknown_tag", `map_get("nope", 1)`, Nil(), ErrInvalidObjectReference},
		{"object_key", `define(m, new_map()) map_insert(m, new_map(), 1)`, Nil(), ErrInvalidObjectKey},
		{"function_key", `new_map("m") map_get("m", fn(1))`, Nil(), ErrInvalidObjectKey},
		{"delete_binding_drops_map", `define(m, new_map("t")) delete(m) exists_map("t")`, Boolean(false), nil},
	})
}

func TestBuiltins_Console(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		src    string
		want   Value
		output string
	}{
		{"print_joins", "", `print(1, "a", True)`, Nil(), "1 a True"},
		{"println", "", `println("x") println()`, Nil(), "x\n\n"},
		{"println_alias", "", `print_line(2)`, Nil(), "2\n"},
		{"print_function", "", "print(fn(a, b, a))", Nil(), "Function (a, b)"},
		{"print_map", "", `define(m, new_map()) map_insert(m, "b", 2) map_insert(m, 1, True) print_map(m)`,
			Nil(), "{1: True, \"b\": 2}\n"},
		{"readline", "first\nsecond\n", "readline()", String("first"), ""},
		{"readline_prompt", "line\r\n", `readline("> ")`, String("line"), "> "},
		{"readline_eof", "", "readline()", Nil(), ""},
		{"readline_unterminated", "last", "readline() readline()", Nil(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.stdin)

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

func TestRegistry(t *testing.T) {
	r := Builtins()

	sum, ok := r.Lookup("add")
	if !ok || sum.Name != "sum" {
		t.Fatalf("Lookup(add) = %v, %v", sum, ok)
	}

	if got := sum.Signature(); got != "sum(...numbers)" {
		t.Errorf("signature = %q", got)
	}

	seen := make(map[string]bool)

	for _, op := range r.Operators() {
		if seen[op.Name] {
			t.Errorf("operator %q listed twice", op.Name)
		}

		seen[op.Name] = true
	}

	if seen["add"] || !seen["sum"] {
		t.Error("Operators should list each operator under its name only")
	}

	r.Register(&Operator{
		Name:   "double",
		Params: []string{"n"},
		Min:    1, Max: 1,
		Eval: func(in *Invocation) (Value, error) {
			n, err := in.Number(0)

			return Number(2 * n), err
		},
	})

	got, err := newHarness("", WithRegistry(r)).last(t.Context(), "double(21)")
	if err != nil || !got.Equal(Number(42)) {
		t.Errorf("host operator = (%v, %v), want 42", got, err)
	}

	var none *Registry
	if _, ok := none.Lookup("sum"); ok {
		t.Error("nil registry resolved a name")
	}
}
