package lang

import (
	"log/slog"
	"strconv"
)

// Resolver reports which call targets are builtin operators.
// [*Registry] implements Resolver.
type Resolver interface {
	Lookup(name string) (*Operator, bool)
}

// Parse builds expressions from a token stream.
//
// Call targets that ops resolves are bound to the operator immediately;
// every other target is left for the evaluator to resolve as a user function.
// A nil ops treats every call as a user function call.
func Parse(tokens []Token, ops Resolver) ([]Expr, error) {
	p := &parser{ops: ops}

	for _, tok := range tokens {
		if err := p.feed(tok); err != nil {
			return nil, err
		}
	}

	return p.finish()
}

// ParseString lexes and parses source text.
func ParseString(source string, ops Resolver) ([]Expr, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}

	return Parse(tokens, ops)
}

// parser holds the parser state.
type parser struct {
	ops   Resolver
	out   []Expr
	marks []mark
}

// mark records where an argument list starts in the output list and the
// position of the bracket that opened it.
type mark struct {
	at  Position
	len int
}

func (p *parser) feed(tok Token) error {
	switch tok.Kind {
	case TokenOpen:
		p.marks = append(p.marks, mark{at: tok.Span.Start, len: len(p.out)})

	case TokenClose:
		return p.closeCall(tok)

	case TokenWord:
		p.out = append(p.out, &Word{Name: tok.Text, At: tok.Span.Start})

	default:
		v, err := literal(tok)
		if err != nil {
			return err
		}

		p.out = append(p.out, &Literal{Value: v, At: tok.Span.Start})
	}

	return nil
}

// closeCall drains the arguments opened by the innermost mark and replaces
// the callee word preceding them with a Call node.
func (p *parser) closeCall(tok Token) error {
	if len(p.marks) == 0 {
		return ErrUnbalancedBrackets.With(slog.Any("position", tok.Span.Start))
	}

	m := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]

	args := make([]Expr, len(p.out)-m.len)
	copy(args, p.out[m.len:])
	p.out = p.out[:m.len]

	if len(p.out) == 0 {
		return ErrParser.
			With(slog.Any("position", m.at)).
			Detail("argument list has no call target")
	}

	word, ok := p.out[len(p.out)-1].(*Word)
	if !ok {
		target := p.out[len(p.out)-1]

		return ErrParser.
			With(
				slog.Any("position", target.Pos()),
				slog.String("target", target.String()),
			).
			Detail("call target is not a word")
	}

	p.out = p.out[:len(p.out)-1]

	call := &Call{
		Callee: Callee{Name: word.Name},
		Args:   args,
		At:     word.At,
	}

	if p.ops != nil {
		if op, ok := p.ops.Lookup(word.Name); ok {
			call.Callee.Operator = op
		}
	}

	p.out = append(p.out, call)

	return nil
}

func (p *parser) finish() ([]Expr, error) {
	if len(p.marks) > 0 {
		m := p.marks[len(p.marks)-1]

		return nil, ErrUnbalancedBrackets.With(slog.Any("position", m.at))
	}

	return p.out, nil
}

// literal converts a literal token to its intrinsic value.
func literal(tok Token) (Value, error) {
	switch tok.Kind {
	case TokenString:
		return String(tok.Text[1 : len(tok.Text)-1]), nil

	case TokenBoolean:
		return Boolean(tok.Text == "True"), nil

	case TokenNumber:
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return Nil(), ErrParser.
				With(
					slog.Any("position", tok.Span.Start),
					slog.String("text", tok.Text),
				).
				Wrap(err)
		}

		return Number(n), nil

	default:
		return Nil(), ErrParser.
			With(slog.Any("position", tok.Span.Start)).
			Detail("unexpected " + tok.Kind.String() + " token")
	}
}
