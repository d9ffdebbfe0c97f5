package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/egg/lang"
)

func testContext(t *testing.T, stdin string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	return WithStreams(t.Context(), strings.NewReader(stdin), &out), &out
}

func TestEval(t *testing.T) {
	tests := []struct {
		name   string
		source []string
		want   string
		err    error
	}{
		{
			name:   "values",
			source: []string{`sum(1, 2) concat("a", "b")`},
			want:   "3\nab\n",
		},
		{
			name:   "shared_interpreter",
			source: []string{"define(x, 4)", "multiply(x, x)"},
			want:   "4\n16\n",
		},
		{
			name:   "script_output",
			source: []string{`println("hi")`},
			want:   "hi\nNil\n",
		},
		{
			name:   "function_value",
			source: []string{"fn(a, b, a)"},
			want:   "Function (a, b)\n",
		},
		{
			name:   "undefined",
			source: []string{"nope"},
			err:    lang.ErrUndefinedBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, "")

			err := (&Eval{Source: tt.source}).Run(ctx)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestEval_MaxIterations(t *testing.T) {
	ctx, _ := testContext(t, "")
	ctx = WithOptions(ctx, lang.WithMaxIterations(10))

	err := (&Eval{Source: []string{"while(true, 1)"}}).Run(ctx)
	if !errors.Is(err, lang.ErrIterationLimit) {
		t.Errorf("error = %v, want %v", err, lang.ErrIterationLimit)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	lib := writeScript(t, dir, "lib.egg", "define(double, fn(n, multiply(n, 2)))")
	main := writeScript(t, dir, "main.egg", "double(21)")

	tests := []struct {
		name  string
		run   Run
		stdin string
		want  string
	}{
		{"quiet", Run{Files: []string{lib, main}}, "", ""},
		{"print", Run{Files: []string{lib, main}, Print: true}, "", "Function (n)\n42\n"},
		{"stdin_default", Run{Print: true}, `concat("a", "b")`, "ab\n"},
		{"stdin_after_files", Run{Files: []string{"-", lib}, Print: true}, "double(1.5)", "Function (n)\n3\n"},
		{"script_output", Run{Files: []string{"-"}}, `print("x")`, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, tt.stdin)

			if err := tt.run.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_Error(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.egg", "sum(1")
	ctx, _ := testContext(t, "")

	err := (&Run{Files: []string{path}}).Run(ctx)
	if !errors.Is(err, lang.ErrUnbalancedBrackets) {
		t.Errorf("error = %v, want %v", err, lang.ErrUnbalancedBrackets)
	}
}

func TestAST(t *testing.T) {
	const src = "sum(1, x)"

	tests := []struct {
		name string
		ast  AST
		want []string
	}{
		{"text", AST{File: "-", Format: "text"}, []string{"sum("}},
		{"json", AST{File: "-", Format: "json", Indent: 2}, []string{`"call": "sum"`, `"word": "x"`}},
		{"json_compact", AST{File: "-", Format: "json"}, []string{`"call":"sum"`}},
		{"yaml", AST{File: "-", Format: "yaml", Indent: 2}, []string{"call: sum", "word: x"}},
		{"tokens", AST{File: "-", Format: "text", Tokens: true}, []string{"sum", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, src)

			if err := tt.ast.Run(ctx); err != nil {
				t.Fatal(err)
			}

			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q missing %q", out.String(), want)
				}
			}
		})
	}
}

func TestAST_UnknownFormat(t *testing.T) {
	ctx, _ := testContext(t, "1")

	err := (&AST{File: "-", Format: "xml"}).Run(ctx)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want %v", err, ErrUnknownFormat)
	}
}

type initCLI struct {
	Level  string   `default:"info"`
	Count  int      `default:"3"`
	Tags   []string `default:"a,b"`
	Secret string   `default:"s" hidden:""`
	Init   Init     `cmd:""`
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	parse := func(args ...string) *kong.Context {
		t.Helper()

		var cli initCLI

		parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
		if err != nil {
			t.Fatal(err)
		}

		ktx, err := parser.Parse(args)
		if err != nil {
			t.Fatal(err)
		}

		return ktx
	}

	ktx := parse("--count=7", "init")
	if err := (&Init{}).Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got["level"] != "info" {
		t.Errorf("level = %v, want info", got["level"])
	}

	if _, ok := got["secret"]; ok {
		t.Error("hidden flag written")
	}

	if _, ok := got["help"]; ok {
		t.Error("help flag written")
	}

	if !strings.Contains(string(data), "count: 7") {
		t.Errorf("count missing from %q", data)
	}

	err = (&Init{}).Run(WithContext(t.Context(), parse("init")))
	if !errors.Is(err, ErrFileExists) {
		t.Errorf("error = %v, want %v", err, ErrFileExists)
	}

	if err := (&Init{Force: true}).Run(WithContext(t.Context(), parse("init", "--force"))); err != nil {
		t.Errorf("forced init: %v", err)
	}
}
