package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.egg", "1")
	b := writeScript(t, dir, "b.egg", "2")

	link := filepath.Join(dir, "link.egg")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	rel, err := filepath.Rel(mustGetwd(t), b)
	if err != nil {
		rel = b
	}

	tests := []struct {
		name  string
		names []string
		want  []string // resolved paths; "" is stdin
	}{
		{"single", []string{a}, []string{a}},
		{"ordered", []string{b, a}, []string{b, a}},
		{"duplicate", []string{a, a}, []string{a}},
		{"symlink", []string{a, link}, []string{a}},
		{"relative", []string{b, rel}, []string{b}},
		{"stdin_last", []string{"-", a, "-"}, []string{a, ""}},
		{"stdin_only", []string{"-"}, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, err := Sources(tt.names)
			if err != nil {
				t.Fatal(err)
			}

			if len(srcs) != len(tt.want) {
				t.Fatalf("got %d sources %v, want %d", len(srcs), srcs, len(tt.want))
			}

			for i, src := range srcs {
				want := tt.want[i]
				if want != "" {
					want, _ = filepath.EvalSymlinks(want)
				}

				got := src.Path
				if got != "" {
					got, _ = filepath.EvalSymlinks(got)
				}

				if got != want {
					t.Errorf("source %d = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestSources_Missing(t *testing.T) {
	_, err := Sources([]string{filepath.Join(t.TempDir(), "absent.egg")})
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("error = %v, want %v", err, ErrReadSource)
	}
}

func TestSource_Read(t *testing.T) {
	path := writeScript(t, t.TempDir(), "s.egg", "sum(1, 2)")

	got, err := Source{Name: "s.egg", Path: path}.Read(nil)
	if err != nil || got != "sum(1, 2)" {
		t.Errorf("Read = (%q, %v)", got, err)
	}

	got, err = Source{Name: stdinSource}.Read(strings.NewReader("x"))
	if err != nil || got != "x" {
		t.Errorf("Read stdin = (%q, %v)", got, err)
	}
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	return wd
}
