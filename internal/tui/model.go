// Package tui is the interactive chat window: a scrolling list of originals and
// translations plus key bindings for the operator's selection and the session.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MimeLyc/td2-chat-translator/internal/render"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

// maxHistory caps the number of items kept for scrollback.
const maxHistory = 2000

// Session is the control surface for the polling side.
type Session interface {
	Start() (string, error)
	Restart() (string, error)
	Stop()
	Active() bool
}

// Settings is the operator's mutable selection.
type Settings interface {
	Selection() translator.Selection
	CycleBackend() (translator.Selection, error)
	CycleLanguage() (translator.Selection, error)
	ToggleShowOriginal() (translator.Selection, error)
}

// Options configures the UI.
type Options struct {
	Session  Session
	Settings Settings
	Theme    Theme
}

// Model is the root Bubble Tea model.
type Model struct {
	session  Session
	settings Settings
	styles   Styles

	width  int
	height int
	ready  bool

	viewport viewport.Model
	items    []render.Item
}

func New(opts Options) Model {
	theme := opts.Theme
	if theme == (Theme{}) {
		theme = defaultTheme()
	}
	return Model{
		session:  opts.Session,
		settings: opts.Settings,
		styles:   theme.Styles(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(m.height-2, 1)
		if !m.ready {
			m.viewport = viewport.New(m.width, bodyHeight)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = bodyHeight
		}
		m.refresh(true)
		return m, nil

	case itemMsg:
		m.append(render.Item(msg))
		return m, nil

	case sessionResultMsg:
		if msg.err != nil {
			m.fail(msg.err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "o":
		if _, err := m.settings.ToggleShowOriginal(); err != nil {
			m.fail(err)
		}

	case "b":
		if sel, err := m.settings.CycleBackend(); err != nil {
			m.fail(err)
		} else {
			m.status(fmt.Sprintf("Backend: %s", sel.Backend))
		}

	case "l":
		if sel, err := m.settings.CycleLanguage(); err != nil {
			m.fail(err)
		} else {
			m.status(fmt.Sprintf("Target language: %s", sel.TargetLanguage))
		}

	case "r":
		if m.session != nil {
			return m, restartSession(m.session)
		}

	case "s":
		if m.session != nil {
			return m, toggleSession(m.session)
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) status(text string) {
	m.append(render.Item{Text: text, Tag: render.TagStatus})
}

// fail shows err inline, with advice when the error carries it.
func (m *Model) fail(err error) {
	text := "Error: " + err.Error()
	var advised interface{ Advice() string }
	if errors.As(err, &advised) {
		text += " (" + advised.Advice() + ")"
	}
	m.append(render.Item{Text: text, Tag: tagError})
}

// tagError is local to the UI; the worker never produces it.
const tagError render.Tag = "error"

func (m *Model) append(it render.Item) {
	m.items = append(m.items, it)
	if len(m.items) > maxHistory {
		m.items = append([]render.Item(nil), m.items[len(m.items)-maxHistory:]...)
	}
	m.refresh(false)
}

// refresh rebuilds the viewport content, following the tail unless the
// operator has scrolled up.
func (m *Model) refresh(force bool) {
	if !m.ready {
		return
	}
	follow := force || m.viewport.AtBottom()
	m.viewport.SetContent(m.renderItems())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderItems() string {
	lines := make([]string, 0, len(m.items))
	for _, it := range m.items {
		style := m.styles.ForTag(it.Tag)
		if it.Tag == tagError {
			style = m.styles.Error
		}
		if m.width > 0 {
			style = style.Width(m.width)
		}
		lines = append(lines, style.Render(it.Text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	state := "stopped"
	if m.session != nil && m.session.Active() {
		state = "watching"
	}
	original := "off"
	var sel translator.Selection
	if m.settings != nil {
		sel = m.settings.Selection()
	}
	if sel.ShowOriginal {
		original = "on"
	}
	text := fmt.Sprintf("TD2 chat  %s  →  %s via %s  original: %s", state, sel.TargetLanguage, sel.Backend, original)
	return m.styles.Header.Width(m.width).Render(text)
}

func (m Model) renderFooter() string {
	keys := []struct{ key, label string }{
		{"l", "language"},
		{"b", "backend"},
		{"o", "original"},
		{"s", "start/stop"},
		{"r", "restart"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.styles.Key.Render(k.key)+" "+k.label)
	}
	return m.styles.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}

// sessionResultMsg reports the outcome of a session command.
type sessionResultMsg struct{ err error }

// Session control runs as commands: the session emits status lines through
// the program, which cannot be fed from inside Update.
func toggleSession(session Session) tea.Cmd {
	return func() tea.Msg {
		if session.Active() {
			session.Stop()
			return sessionResultMsg{}
		}
		_, err := session.Start()
		return sessionResultMsg{err: err}
	}
}

func restartSession(session Session) tea.Cmd {
	return func() tea.Msg {
		_, err := session.Restart()
		return sessionResultMsg{err: err}
	}
}
