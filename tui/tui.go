package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/aion/cli"
	"github.com/nathoo/aion/types"
)

// keyMap holds the bindings the model handles itself. Everything else goes
// to the text input.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
}

// Model is the Bubble Tea model for the battle TUI.
type Model struct {
	session *cli.Session

	viewport viewport.Model
	input    textinput.Model
	history  *History
	log      []logLine

	width, height int
	ready         bool
	quitting      bool
}

// outputMsg carries engine output into the Update loop.
type outputMsg struct {
	input  string
	lines  []string
	system bool
}

// New creates a TUI model over a session.
func New(s *cli.Session) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = cli.StyleInput
	in.CharLimit = 256
	in.Focus()
	return Model{session: s, input: in, history: NewHistory(100)}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(s *cli.Session) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Init prints the header, the intro and the opening of the battle.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.opening())
}

func (m Model) opening() tea.Cmd {
	return func() tea.Msg {
		b := m.session.Defs.Battle
		lines := []string{header(b), ""}
		if b.Intro != "" {
			lines = append(lines, b.Intro, "")
		}
		return outputMsg{lines: append(lines, m.session.Engine.Opening().Output...)}
	}
}

// header is "Title vX by Author", leaving out the parts that are unset.
func header(b types.BattleDef) string {
	parts := []string{b.Title}
	if b.Version != "" {
		parts = append(parts, "v"+b.Version)
	}
	if b.Author != "" {
		parts = append(parts, "by", b.Author)
	}
	return strings.Join(parts, " ")
}

// Update handles key presses, resizes and engine output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case outputMsg:
		m = m.appendOutput(msg)
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, keys.Submit):
		next, cmd := m.submit()
		return next, cmd, true
	case key.Matches(msg, keys.Older):
		if prev, ok := m.history.Prev(m.input.Value()); ok {
			m.setInput(prev)
		}
		return m, nil, true
	case key.Matches(msg, keys.Newer):
		if next, ok := m.history.Next(); ok {
			m.setInput(next)
		}
		return m, nil, true
	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// resize keeps one line for the status bar and one for the input.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	h := max(height-2, 1)
	if m.ready {
		m.viewport.Width, m.viewport.Height = width, h
	} else {
		m.viewport = viewport.New(width, h)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.refresh()
}

// submit runs the input line as a meta-command or a battle command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	if strings.HasPrefix(input, "/") {
		lines, quit := m.session.Meta(input)
		m = m.appendOutput(outputMsg{input: input, lines: lines, system: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	cmd, ok := m.session.Expand(input)
	if !ok {
		return m.appendOutput(outputMsg{input: input, lines: []string{"Nothing to repeat."}, system: true}), nil
	}
	return m.appendOutput(outputMsg{input: cmd, lines: m.session.Command(cmd)}), nil
}

func (m Model) appendOutput(msg outputMsg) Model {
	m.log = append(m.log, newLogLines(msg.input, msg.lines, msg.system)...)
	m.refresh()
	return m
}

// refresh re-wraps the log at the current width and scrolls to the end.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderLog(m.log, m.width))
	m.viewport.GotoBottom()
}

// View renders the battle log, the status bar and the input line.
func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case !m.ready:
		return "Loading..."
	}
	return strings.Join([]string{m.viewport.View(), m.renderStatusBar(), m.input.View()}, "\n")
}

// viewportKeyMap leaves Up/Down to the command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
