package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/td2-chat-translator/internal/config"
	"github.com/MimeLyc/td2-chat-translator/internal/render"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

type fakeSession struct {
	active   bool
	starts   int
	restarts int
	stops    int
	startErr error
}

func (f *fakeSession) Start() (string, error) {
	f.starts++
	if f.startErr != nil {
		return "", f.startErr
	}
	f.active = true
	return "/logs/log.txt", nil
}

func (f *fakeSession) Restart() (string, error) {
	f.restarts++
	f.active = true
	return "/logs/log.txt", nil
}

func (f *fakeSession) Stop() {
	f.stops++
	f.active = false
}

func (f *fakeSession) Active() bool { return f.active }

type advisedError struct{}

func (advisedError) Error() string  { return "no log file to watch" }
func (advisedError) Advice() string { return "check the log directory" }

func newTestModel(t *testing.T, session Session) (Model, *config.SelectionStore) {
	t.Helper()
	store := config.NewSelectionStore(filepath.Join(t.TempDir(), "prefs.toml"), translator.Selection{
		TargetLanguage: "English",
		Backend:        translator.BackendGoogle,
		ShowOriginal:   true,
	})
	m := New(Options{Session: session, Settings: store})
	return resize(m, 100, 20), store
}

func resize(m Model, w, h int) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(Model)
}

func press(m Model, key string) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model), cmd
}

// runCmd executes cmd and feeds its message back into the model.
func runCmd(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestView_LoadingUntilSized(t *testing.T) {
	m := New(Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestUpdate_ItemsAreShownInOrder(t *testing.T) {
	m, _ := newTestModel(t, &fakeSession{})

	for _, it := range []render.Item{
		{Text: "Original: (10:00:00) Foo@1: Test", Tag: render.TagOriginal},
		{Text: "Translated: (10:00:00) Foo@1: Prüfung", Tag: render.TagTranslated},
	} {
		next, _ := m.Update(itemMsg(it))
		m = next.(Model)
	}

	require.Len(t, m.items, 2)
	assert.Equal(t, render.TagOriginal, m.items[0].Tag)
	view := m.View()
	assert.Contains(t, view, "Original: (10:00:00) Foo@1: Test")
	assert.Contains(t, view, "Translated: (10:00:00) Foo@1: Prüfung")
}

func TestUpdate_HistoryIsCapped(t *testing.T) {
	m, _ := newTestModel(t, &fakeSession{})
	for i := 0; i < maxHistory+10; i++ {
		next, _ := m.Update(itemMsg{Text: fmt.Sprintf("line %d", i), Tag: render.TagTranslated})
		m = next.(Model)
	}
	require.Len(t, m.items, maxHistory)
	assert.Equal(t, "line 10", m.items[0].Text)
}

func TestKeys_Quit(t *testing.T) {
	m, _ := newTestModel(t, &fakeSession{})
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeys_SelectionChanges(t *testing.T) {
	m, store := newTestModel(t, &fakeSession{})

	m, _ = press(m, "o")
	assert.False(t, store.Selection().ShowOriginal)

	m, _ = press(m, "b")
	assert.Equal(t, translator.BackendChatGPT, store.Selection().Backend)
	assert.Equal(t, "Backend: ChatGPT", m.items[len(m.items)-1].Text)

	m, _ = press(m, "l")
	assert.Equal(t, translator.LanguageNames()[1], store.Selection().TargetLanguage)
	assert.Contains(t, m.items[len(m.items)-1].Text, "Target language: ")

	assert.Contains(t, m.View(), "via ChatGPT")
}

func TestKeys_StartStopAndRestart(t *testing.T) {
	session := &fakeSession{}
	m, _ := newTestModel(t, session)

	m, cmd := press(m, "s")
	require.NotNil(t, cmd)
	assert.Zero(t, session.starts, "the session is started by the command, not by Update")
	m = runCmd(m, cmd)
	assert.Equal(t, 1, session.starts)
	assert.True(t, session.active)
	assert.Contains(t, m.View(), "watching")

	m, cmd = press(m, "s")
	m = runCmd(m, cmd)
	assert.Equal(t, 1, session.stops)
	assert.Contains(t, m.View(), "stopped")

	m, cmd = press(m, "r")
	_ = runCmd(m, cmd)
	assert.Equal(t, 1, session.restarts)
}

func TestKeys_StartFailureIsShown(t *testing.T) {
	session := &fakeSession{startErr: fmt.Errorf("start: %w", advisedError{})}
	m, _ := newTestModel(t, session)

	m = runCmd(press(m, "s"))
	require.NotEmpty(t, m.items)
	last := m.items[len(m.items)-1]
	assert.Equal(t, tagError, last.Tag)
	assert.Equal(t, "Error: start: no log file to watch (check the log directory)", last.Text)

	session.startErr = errors.New("plain")
	m = runCmd(press(m, "s"))
	assert.Equal(t, "Error: plain", m.items[len(m.items)-1].Text)
}

func TestStyles_ForTag(t *testing.T) {
	s := defaultTheme().Styles()
	assert.Equal(t, s.Broadcast, s.ForTag(render.TagBroadcast))
	assert.Equal(t, s.Original, s.ForTag(render.TagOriginal))
	assert.Equal(t, s.Status, s.ForTag(render.TagStatus))
	assert.Equal(t, s.Translated, s.ForTag(render.TagTranslated))
}

func TestSink_DetachedDropsItems(t *testing.T) {
	s := NewSink()
	assert.NotPanics(t, func() { s.Render(render.Item{Text: "x", Tag: render.TagStatus}) })
}
