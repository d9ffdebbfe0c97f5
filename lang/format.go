package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Tree is a parsed program: its top-level expressions in source order.
type Tree []Expr

// Format writes the tree in source syntax, one top-level expression per
// line. With indent > 0, calls that contain other calls are broken across
// lines and their arguments indented by that many spaces per level.
func (t Tree) Format(_ context.Context, w io.Writer, indent int) error {
	for _, e := range t {
		var sb strings.Builder

		formatExpr(&sb, e, indent, 0)

		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the tree as a JSON array of nodes.
func (t Tree) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(t.ToNative(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(t.ToNative())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree as a YAML sequence of nodes.
func (t Tree) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, t.ToNative(), indent)
}

// MarshalJSON implements json.Marshaler.
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToNative())
}

// ToNative converts the tree to plain Go maps and slices.
func (t Tree) ToNative() []any {
	out := make([]any, len(t))
	for i, e := range t {
		out[i] = ExprToNative(e)
	}

	return out
}

// ExprToNative converts one node to a map describing it.
func ExprToNative(e Expr) map[string]any {
	switch n := e.(type) {
	case *Literal:
		return map[string]any{
			"literal":  n.Value.Any(),
			"kind":     n.Value.Kind().String(),
			"position": n.At.String(),
		}

	case *Word:
		return map[string]any{
			"word":     n.Name,
			"position": n.At.String(),
		}

	case *Call:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = ExprToNative(arg)
		}

		return map[string]any{
			"call":     n.Callee.Name,
			"builtin":  !n.Callee.Deferred(),
			"args":     args,
			"position": n.At.String(),
		}

	default:
		return map[string]any{"unknown": fmt.Sprint(e)}
	}
}

// Tokens is a lexed token stream.
type Tokens []Token

// Format writes one token per line.
func (ts Tokens) Format(_ context.Context, w io.Writer, _ int) error {
	for _, tok := range ts {
		if _, err := fmt.Fprintln(w, tok.String()); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the tokens as a JSON array.
func (ts Tokens) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	enc := json.NewEncoder(w)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode([]Token(ts))
}

// FormatYAML writes the tokens as a YAML sequence.
func (ts Tokens) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, []Token(ts), indent)
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func formatExpr(sb *strings.Builder, e Expr, indent, depth int) {
	c, ok := e.(*Call)
	if !ok || indent == 0 || !hasCall(c.Args) {
		sb.WriteString(e.String())

		return
	}

	pad := strings.Repeat(" ", (depth+1)*indent)

	sb.WriteString(c.Callee.Name)
	sb.WriteString("(\n")

	for _, arg := range c.Args {
		sb.WriteString(pad)
		formatExpr(sb, arg, indent, depth+1)
		sb.WriteString(",\n")
	}

	sb.WriteString(strings.Repeat(" ", depth*indent))
	sb.WriteByte(')')
}

func hasCall(args []Expr) bool {
	for _, arg := range args {
		if _, ok := arg.(*Call); ok {
			return true
		}
	}

	return false
}
