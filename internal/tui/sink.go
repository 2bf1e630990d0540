package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MimeLyc/td2-chat-translator/internal/render"
)

// itemMsg carries one rendered item into the program loop.
type itemMsg render.Item

// Sink forwards items to a running program. Program.Send delivers messages in
// call order, so the worker's ordering survives the hop onto the UI goroutine.
//
// The program is attached after construction because the model it runs needs
// the session, which in turn reports status through this sink.
type Sink struct {
	program *tea.Program
}

func NewSink() *Sink {
	return &Sink{}
}

// Attach must be called before anything renders.
func (s *Sink) Attach(p *tea.Program) {
	s.program = p
}

func (s *Sink) Render(it render.Item) {
	if s.program == nil {
		return
	}
	s.program.Send(itemMsg(it))
}
