package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/egg/lang"
	"github.com/ardnew/egg/log"
)

// editDoneMsg is sent when editing produced source that parses.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "egg> "
	ctrlPrompt = "   : "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  list     List global bindings
  ops      List builtin operators
  edit     Edit this session's input in $EDITOR and run it again
  reset    Discard every binding, function and map
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it; bindings persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outputStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config describes one REPL session.
type Config struct {
	Options     []lang.Option // interpreter options
	Preload     string        // script run before the first prompt
	HistoryPath string        // history file; empty keeps history in memory
	Logger      log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	session          *session
	logger           log.Logger
	history          *History
	intro            string        // preload output, printed on start
	historyIdx       int           // history.Len() when not browsing
	matches          fuzzy.Matches // current fuzzy match results
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts an interactive session and blocks until the user quits.
//
// The interpreter persists across lines. When cfg.Preload is set it runs
// first, and a failure there ends the session before the prompt appears.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Bool("has_preload", cfg.Preload != ""),
	)

	s := newSession(cfg.Options...)

	var intro string

	if cfg.Preload != "" {
		results, err := s.eval(ctx, cfg.Preload)
		if err != nil {
			return err
		}

		intro = joinOutput(s.out.drain(), nil)

		cfg.Logger.TraceContext(ctx, "repl preload complete",
			slog.Int("values", len(results)))
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, s, history, cfg.Logger)
	m.intro = intro

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(printAbove(m.intro), textinput.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		err := m.session.replay(m.ctxFunc(), msg.source)
		output := m.session.out.drain()

		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("content_length", len(msg.source)),
			slog.Bool("success", err == nil),
		)

		if err != nil {
			return m, printAbove(joinOutput(output, err))
		}

		return m, printAbove(joinOutput(output, nil), resultStyle.Render("session replayed"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine renders the line below the prompt: a history position, a usage
// hint, a signature or the completion bar.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	if m.mode == modeEval {
		call := detectFunctionCall(input, byteOffset(input, m.input.Position()))
		if call.inCall {
			if params, doc, ok := m.session.signature(call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex, doc)
			}
		}
	}

	return m.renderCandidateBar()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		m.setInput("", 0)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		m, _ = m.historyMove(-1, anyMode, true)

		return m, nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(+1), nil
		}

		m, _ = m.historyMove(+1, anyMode, true)

		return m, nil

	case tea.KeyShiftUp:
		m, _ = m.historyMove(-1, m.sameMode, false)

		return m, nil

	case tea.KeyShiftDown:
		m, _ = m.historyMove(+1, m.sameMode, false)

		return m, nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTabText, m.preTabCursor)

			return m, nil
		}

		m.altNavActive = false

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes:
		// Space is a "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) updates the input and
	// recomputes matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// setInput replaces the input text and moves the cursor to rune position
// cursor, or to the end when cursor is negative.
func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)

	if cursor < 0 {
		cursor = len([]rune(text))
	}

	m.input.SetCursor(cursor)
	m.refreshMatches(false)
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed and confirmed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	text := input[:m.wordStart] + replacement + input[m.wordEnd:]
	end := m.wordStart + len(replacement)

	m.input.SetValue(text)
	m.input.SetCursor(runePos(text, end))

	m.wordEnd = end
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly
// one candidate remains and the typed word already equals it. Deletions and
// cursor movement pass false so editing never completes unexpectedly.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if word := m.input.Value()[m.wordStart:m.wordEnd]; word == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.setInput("", 0)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl input",
		slog.String("input", input),
		slog.Int("mode", int(m.mode)),
	)

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	results, err := m.session.eval(m.ctxFunc(), input)
	output := m.session.out.drain()

	if err != nil {
		m.logger.DebugContext(m.ctxFunc(), "repl eval failed", slog.Any("error", err))

		return m, tea.Sequence(echo, printAbove(joinOutput(output, err)))
	}

	lines := make([]string, 0, len(results)+1)
	lines = append(lines, joinOutput(output, nil))

	for _, r := range results {
		lines = append(lines, resultStyle.Render(r))
	}

	return m, tea.Sequence(echo, printAbove(lines...))
}

// printAbove prints the non-empty lines above the prompt. It returns nil when
// there is nothing to print.
func printAbove(lines ...string) tea.Cmd {
	var keep []string

	for _, l := range lines {
		if l != "" {
			keep = append(keep, l)
		}
	}

	if len(keep) == 0 {
		return nil
	}

	return tea.Println(strings.Join(keep, "\n"))
}

// joinOutput styles script output followed by err, if any. The result may
// be empty.
func joinOutput(output string, err error) string {
	var parts []string

	if output != "" {
		parts = append(parts, outputStyle.Render(output))
	}

	if err != nil {
		parts = append(parts, errorStyle.Render("error: "+err.Error()))
	}

	return strings.Join(parts, "\n")
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "o", "ops":
		return m, tea.Sequence(echo, tea.Println(m.listOperators()))

	case "r", "reset":
		m.session.reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		source:  m.session.transcript(),
		check:   m.session.check,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{source: *cmd.edited}
		}
	})
}

func (m model) listBindings() string {
	var b strings.Builder

	scope := m.session.interp.Scope()

	for _, name := range scope.Names() {
		v, _ := scope.Get(name)
		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(m.session.render(v)))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m model) listOperators() string {
	var b strings.Builder

	for _, op := range m.session.interp.Registry().Operators() {
		fmt.Fprintf(&b, "  %s %s\n", op.Signature(), hintStyle.Render(op.Doc))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func anyMode(HistoryEntry) bool { return true }

func (m model) sameMode(e HistoryEntry) bool { return e.Mode == m.mode }

// historyMove steps through history by step (-1 older, +1 newer) to the
// next entry accepted by keep. With follow set, the input mode switches to
// the entry's mode. Stepping past the newest entry clears the input.
// It reports whether an entry was found.
func (m model) historyMove(step int, keep func(HistoryEntry) bool, follow bool) (model, bool) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil || !keep(entry) {
			continue
		}

		if follow && m.mode != entry.Mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.setInput(entry.Line, -1)

		return m, true
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("", 0)
	}

	return m, false
}

// historyCtrl browses command history only, switching to command mode for
// the duration. Running off either end restores the mode and input that
// were active before browsing began.
func (m model) historyCtrl(step int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	m, found := m.historyMove(step, func(e HistoryEntry) bool { return e.Mode == modeCtrl }, false)
	if found {
		return m
	}

	m.altNavActive = false

	if m.altNavOrigMode != m.mode {
		m = m.switchToMode(m.altNavOrigMode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.altNavOrigText, m.altNavOrigCursor)

	return m
}

// switchToMode switches to mode, saving the current mode's input and
// restoring the target mode's.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.setInput(m.evalText, m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.setInput(m.ctrlText, m.ctrlCursor)
	}

	return m
}
