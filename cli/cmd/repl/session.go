package repl

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	"github.com/ardnew/egg/lang"
)

// console collects script output between prompts. The terminal belongs to
// the prompt, so readline always sees end of input.
type console struct{ bytes.Buffer }

func (*console) ReadLine(string) (string, error) { return "", io.EOF }

// drain returns everything written since the last drain, without the final
// newline.
func (c *console) drain() string {
	s := strings.TrimSuffix(c.String(), "\n")
	c.Reset()

	return s
}

// session is the interpreter state shared by every line of one REPL run.
type session struct {
	opts   []lang.Option
	interp *lang.Interpreter
	out    *console
	source []string // inputs that evaluated without error, in order
}

func newSession(opts ...lang.Option) *session {
	s := &session{opts: opts}
	s.reset()

	return s
}

// reset discards every binding, function and map.
func (s *session) reset() {
	s.out = new(console)
	s.interp = lang.New(slices.Concat(s.opts, []lang.Option{lang.WithConsole(s.out)})...)
	s.source = nil
}

// eval runs one input and returns the rendered value of each top-level
// expression. Output written by the script is collected separately; see
// [console.drain].
func (s *session) eval(ctx context.Context, input string) ([]string, error) {
	vals, err := s.interp.Run(ctx, input)
	if err != nil {
		return nil, err
	}

	s.source = append(s.source, input)

	results := make([]string, len(vals))
	for i, v := range vals {
		results[i] = s.render(v)
	}

	return results, nil
}

// replay resets the session and evaluates src as one input.
func (s *session) replay(ctx context.Context, src string) error {
	s.reset()

	_, err := s.eval(ctx, src)

	return err
}

// check parses src without evaluating it.
func (s *session) check(ctx context.Context, src string) error {
	_, err := s.interp.Parse(ctx, src)

	return err
}

// transcript returns the successful inputs so far, one per line.
func (s *session) transcript() string {
	if len(s.source) == 0 {
		return ""
	}

	return strings.Join(s.source, "\n") + "\n"
}

func (s *session) render(v lang.Value) string {
	return s.interp.Scope().Extras().Render(v)
}

// operator returns the builtin registered under name.
func (s *session) operator(name string) (*lang.Operator, bool) {
	return s.interp.Registry().Lookup(name)
}

// function returns the user function bound to name in the global scope.
func (s *session) function(name string) (*lang.FunctionDef, bool) {
	v, ok := s.interp.Scope().Get(name)
	if !ok {
		return nil, false
	}

	return s.interp.Scope().Extras().Function(v)
}

// names returns every operator name and scope binding, operators first.
func (s *session) names() []string {
	return slices.Concat(s.interp.Registry().Names(), s.interp.Scope().Names())
}
