package lang

import (
	"strings"
)

// Expr is a node of the expression tree: *[Literal], *[Word] or *[Call].
// Nodes are created by the parser and never modified afterward.
type Expr interface {
	// Pos returns the position of the node's first token.
	Pos() Position

	// String renders the node back to source form.
	String() string

	expr()
}

// Literal is a constant value.
type Literal struct {
	Value Value
	At    Position
}

// Word is a variable reference.
type Word struct {
	Name string
	At   Position
}

// Call applies a callee to argument expressions.
type Call struct {
	Callee Callee
	Args   []Expr
	At     Position
}

// Callee is the target of a [Call], resolved once at parse time.
//
// Operator is set when Name matched a builtin known to the parser.
// Otherwise Operator is nil and Name is looked up as a user function each
// time the call is evaluated.
type Callee struct {
	Operator *Operator
	Name     string
}

// Deferred reports whether the callee is resolved at evaluation time.
func (c Callee) Deferred() bool { return c.Operator == nil }

func (*Literal) expr() {}
func (*Word) expr()    {}
func (*Call) expr()    {}

// Pos returns the position of the literal token.
func (l *Literal) Pos() Position { return l.At }

// Pos returns the position of the word token.
func (w *Word) Pos() Position { return w.At }

// Pos returns the position of the callee word.
func (c *Call) Pos() Position { return c.At }

func (l *Literal) String() string {
	if s, ok := l.Value.Text(); ok {
		return `"` + s + `"`
	}

	return l.Value.String()
}

func (w *Word) String() string { return w.Name }

func (c *Call) String() string {
	var sb strings.Builder

	sb.WriteString(c.Callee.Name)
	sb.WriteByte('(')

	for i, arg := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(arg.String())
	}

	sb.WriteByte(')')

	return sb.String()
}

// wordName returns the name carried by a bare word or a string literal,
// the two forms accepted wherever a builtin expects a binding name.
func wordName(e Expr) (string, bool) {
	switch n := e.(type) {
	case *Word:
		return n.Name, true
	case *Literal:
		return n.Value.Text()
	default:
		return "", false
	}
}
