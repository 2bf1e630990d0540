package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MimeLyc/td2-chat-translator/internal/render"
)

// Theme holds the palette for the chat window.
type Theme struct {
	Text      string
	Muted     string
	Accent    string
	Broadcast string
	Info      string
	Danger    string
	Surface   string
}

func defaultTheme() Theme {
	return Theme{
		Text:      "#f8f8f2",
		Muted:     "#6272a4",
		Accent:    "#50fa7b",
		Broadcast: "#ffb86c",
		Info:      "#8be9fd",
		Danger:    "#ff5555",
		Surface:   "#282a36",
	}
}

// Styles are the lipgloss styles built from a Theme.
type Styles struct {
	Original   lipgloss.Style
	Translated lipgloss.Style
	Broadcast  lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Key    lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Original: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		Translated: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		Broadcast: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Broadcast)).
			Bold(true),

		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Key: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
	}
}

// ForTag returns the style a rendered item is drawn with.
func (s Styles) ForTag(tag render.Tag) lipgloss.Style {
	switch tag {
	case render.TagOriginal:
		return s.Original
	case render.TagBroadcast:
		return s.Broadcast
	case render.TagStatus:
		return s.Status
	default:
		return s.Translated
	}
}
