package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "ops", "edit", "reset", "clear", "quit"}

// isWordBoundary reports whether r ends a name: whitespace, brackets, the
// comma, a string quote or a comment marker.
func isWordBoundary(r rune) bool {
	switch r {
	case '(', ')', ',', '"', '#':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the word around the byte offset cursor and its byte
// boundaries within input. The word is empty when the cursor sits between
// two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// byteOffset converts a rune position in s to a byte offset.
func byteOffset(s string, pos int) int {
	for i := range s {
		if pos == 0 {
			return i
		}

		pos--
	}

	return len(s)
}

// runePos converts a byte offset in s to a rune position.
func runePos(s string, off int) int {
	return utf8.RuneCountInString(s[:min(off, len(s))])
}

// inString reports whether the byte offset cursor is inside a string
// literal.
func inString(input string, cursor int) bool {
	open := false

	for i, r := range input[:min(cursor, len(input))] {
		switch {
		case r == '"' && (i == 0 || input[i-1] != '\\'):
			open = !open
		case r == '#' && !open:
			return true // comment; nothing to complete either
		}
	}

	return open
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, together with the word's byte boundaries.
// An empty word has no matches, so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, wordStart, wordEnd
	}

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		if inString(input, cursor) {
			return nil, wordStart, wordEnd
		}

		candidates = m.session.names()
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range m.matches {
		rendered := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(m.matches)-1

		if i > 0 && used+entryWidth+ellipsisWidth > m.width && !last {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callables get a "()" suffix that is not inserted on
// completion.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle, highlightStyle := suggestionStyle, matchStyle
	if selected {
		baseStyle, highlightStyle = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if m.callable(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// callable reports whether name is an operator or bound to a live function.
func (m model) callable(name string) bool {
	if _, ok := m.session.operator(name); ok {
		return true
	}

	_, ok := m.session.function(name)

	return ok
}
