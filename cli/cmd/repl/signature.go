package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	docStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)
)

// functionCall represents a detected call in the input.
type functionCall struct {
	name     string
	argIndex int  // 0-based index of the argument under the cursor
	inCall   bool // cursor is inside the argument list
}

// callFrame tracks one open argument list while scanning input.
type callFrame struct {
	name  string
	args  int  // arguments started so far
	inArg bool // the scan is inside an argument
}

// detectFunctionCall reports the innermost call whose argument list contains
// the byte offset cursor. Arguments are separated by commas or whitespace;
// nested calls and string literals count as one argument each.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	stack := []callFrame{{}} // bottom frame is the top level
	quote := false

	for i := 0; i < cursor; {
		r, size := utf8.DecodeRuneInString(input[i:])
		top := &stack[len(stack)-1]

		switch {
		case quote:
			switch r {
			case '\\':
				i += size
			case '"':
				quote = false
			}

		case r == '#':
			return functionCall{}

		case r == '(':
			_, start, _ := wordBounds(input, i)
			stack = append(stack, callFrame{name: input[start:i]})

		case r == ')':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case isWordBoundary(r) && r != '"':
			top.inArg = false

		default:
			if r == '"' {
				quote = true
			}

			if !top.inArg {
				top.args++
				top.inArg = true
			}
		}

		i += size
	}

	top := stack[len(stack)-1]
	if len(stack) == 1 || top.name == "" {
		return functionCall{}
	}

	idx := top.args
	if top.inArg {
		idx--
	}

	return functionCall{name: top.name, argIndex: idx, inCall: true}
}

// signature returns the parameter names and doc string of the operator or
// user function called name.
func (s *session) signature(name string) (params []string, doc string, ok bool) {
	if op, ok := s.operator(name); ok {
		return op.Params, op.Doc, true
	}

	if def, ok := s.function(name); ok {
		return def.Params, "", true
	}

	return nil, "", false
}

// renderSignatureHint renders name(params) with the parameter at argIdx
// highlighted, followed by doc when present. A rest parameter, marked with
// a "..." prefix, stays highlighted for every later argument.
func renderSignatureHint(name string, params []string, argIdx int, doc string) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		rest := strings.HasPrefix(param, "...")

		if argIdx == i || (rest && argIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if doc != "" {
		b.WriteString("  ")
		b.WriteString(docStyle.Render(doc))
	}

	return b.String()
}
