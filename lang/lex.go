package lang

import (
	"context"
	"log/slog"
	"unicode"
	"unicode/utf8"
)

// Lex converts source text into a token stream.
//
// Commas, whitespace and # comments are discarded. Lex fails with
// [ErrUnknownToken] when no token can be matched at the current position.
func Lex(source string) ([]Token, error) {
	return LexContext(context.Background(), source)
}

// LexContext is [Lex] with a context used for trace logging.
func LexContext(ctx context.Context, source string, opts ...Option) ([]Token, error) {
	in := applyOptions(new(Interpreter), opts...)

	s := &scanner{
		input: []byte(source),
		line:  1,
		col:   1,
	}

	tokens, err := s.scan()
	if err != nil {
		return nil, err
	}

	in.logger.TraceContext(ctx, "lex complete",
		slog.Int("bytes", len(source)),
		slog.Int("tokens", len(tokens)))

	return tokens, nil
}

// scanner holds the lexer state.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int
}

func (s *scanner) scan() ([]Token, error) {
	var tokens []Token

	for {
		s.skipIgnored()

		if s.eof() {
			return tokens, nil
		}

		tok, err := s.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}
}

// next matches exactly one token at the current position, trying the token
// kinds in priority order. Words are the catch-all and come last.
func (s *scanner) next() (Token, error) {
	start := s.position()

	switch ch := s.peek(); {
	case ch == '"':
		return s.scanString(start)

	case ch == '(':
		s.advance()

		return s.token(TokenOpen, start), nil

	case ch == ')':
		s.advance()

		return s.token(TokenClose, start), nil
	}

	if n := s.matchNumber(); n > 0 {
		s.advanceBytes(n)

		return s.token(TokenNumber, start), nil
	}

	n := s.matchWord()
	if n == 0 {
		_, size := utf8.DecodeRune(s.input[s.pos:])

		return Token{}, ErrUnknownToken.With(
			slog.String("text", string(s.input[s.pos:s.pos+size])),
			slog.Any("position", start),
		)
	}

	s.advanceBytes(n)

	tok := s.token(TokenWord, start)
	if tok.Text == "True" || tok.Text == "False" {
		tok.Kind = TokenBoolean
	}

	return tok, nil
}

func (s *scanner) token(kind TokenKind, start Position) Token {
	return Token{
		Kind: kind,
		Text: string(s.input[start.Offset:s.pos]),
		Span: Span{Start: start, Len: s.pos - start.Offset},
	}
}

// scanString consumes a quoted string. Strings have no escapes and must close
// on the line they open.
func (s *scanner) scanString(start Position) (Token, error) {
	s.advance() // opening quote

	for !s.eof() {
		switch s.peek() {
		case '"':
			s.advance()

			return s.token(TokenString, start), nil

		case '\n':
			return Token{}, s.unterminated(start)
		}

		s.advance()
	}

	return Token{}, s.unterminated(start)
}

func (s *scanner) unterminated(start Position) error {
	end := s.pos
	for end > start.Offset && (s.input[end-1] == '\r' || s.input[end-1] == '\n') {
		end--
	}

	return ErrUnknownToken.
		With(
			slog.String("text", string(s.input[start.Offset:end])),
			slog.Any("position", start),
		).
		Detail("unterminated string")
}

// matchNumber returns the byte length of a decimal number at the current
// position, or 0: [+-]? digits ('.' digits?)? ([eE] [+-]? digits)?
// A leading '.' is also accepted when followed by a digit.
func (s *scanner) matchNumber() int {
	in := s.input[s.pos:]
	i := 0

	if i < len(in) && (in[i] == '+' || in[i] == '-') {
		i++
	}

	intDigits := countDigits(in[i:])
	i += intDigits

	fracDigits := 0

	if i < len(in) && in[i] == '.' {
		fracDigits = countDigits(in[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return 0
	}

	if i < len(in) && (in[i] == 'e' || in[i] == 'E') {
		j := i + 1
		if j < len(in) && (in[j] == '+' || in[j] == '-') {
			j++
		}

		if d := countDigits(in[j:]); d > 0 {
			i = j + d
		}
	}

	return i
}

func countDigits(b []byte) int {
	n := 0
	for n < len(b) && b[n] >= '0' && b[n] <= '9' {
		n++
	}

	return n
}

// matchWord returns the byte length of the maximal run of word characters.
func (s *scanner) matchWord() int {
	n := 0

	for s.pos+n < len(s.input) {
		r, size := utf8.DecodeRune(s.input[s.pos+n:])
		if !isWordRune(r) {
			break
		}

		n += size
	}

	return n
}

func isWordRune(r rune) bool {
	switch r {
	case '(', ')', ',', '#', '"', utf8.RuneError:
		return false
	}

	return !unicode.IsSpace(r)
}

// skipIgnored discards whitespace, commas and comments.
func (s *scanner) skipIgnored() {
	for !s.eof() {
		switch ch := s.peek(); {
		case ch == ',' || unicode.IsSpace(ch):
			s.advance()

		case ch == '#':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}

		default:
			return
		}
	}
}

// Helper methods

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

// advanceBytes advances over n bytes that are known not to contain newlines.
func (s *scanner) advanceBytes(n int) {
	end := s.pos + n
	for s.pos < end {
		s.advance()
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}
