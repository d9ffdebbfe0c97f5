package lang

import (
	"fmt"
	"log/slog"
)

// TokenKind classifies a lexeme.
type TokenKind uint8

const (
	TokenString TokenKind = iota
	TokenNumber
	TokenBoolean
	TokenOpen
	TokenClose
	TokenWord
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "String"
	case TokenNumber:
		return "Number"
	case TokenBoolean:
		return "Boolean"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenWord:
		return "Word"
	default:
		return "Unknown"
	}
}

// Position is a location in source text.
type Position struct {
	Offset int `json:"offset" yaml:"offset"` // byte offset, 0-based
	Line   int `json:"line"   yaml:"line"`   // 1-based
	Column int `json:"column" yaml:"column"` // 1-based, in runes
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", p.Offset),
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Span is the extent of a token in source text.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	Len   int      `json:"len"   yaml:"len"` // in bytes
}

// End returns the byte offset one past the span.
func (s Span) End() int { return s.Start.Offset + s.Len }

// Token is one lexeme. Text is the literal source, including quotes for
// strings.
type Token struct {
	Text string    `json:"text" yaml:"text"`
	Span Span      `json:"span" yaml:"span"`
	Kind TokenKind `json:"kind" yaml:"kind"`
}

// String returns a compact description such as Word("x")@1:3.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Span.Start)
}

// MarshalText renders the kind by name in JSON and YAML dumps.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
