// Package render is the one-way path from the translation worker to whatever
// displays chat (terminal UI or plain stdout).
package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

// Tag selects how an item is styled.
type Tag string

const (
	TagOriginal   Tag = "original"
	TagTranslated Tag = "translated"
	TagBroadcast  Tag = "broadcast"
	TagStatus     Tag = "status"
)

// Item is one display line. Items are only ever appended.
type Item struct {
	Text string
	Tag  Tag
}

// Sink receives items in the order they must be shown. Render must not block for long.
type Sink interface {
	Render(Item)
}

// OptionsSource supplies the operator's current selection.
type OptionsSource interface {
	Selection() translator.Selection
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Item)

func (f SinkFunc) Render(it Item) { f(it) }

// ChannelSink forwards items to a buffered channel drained by the UI goroutine.
// Once closed, further items are dropped.
type ChannelSink struct {
	mu     sync.RWMutex
	ch     chan Item
	closed bool
}

func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Item, buffer)}
}

func (s *ChannelSink) Render(it Item) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	s.ch <- it
}

// Items is the receive side for the consumer.
func (s *ChannelSink) Items() <-chan Item {
	return s.ch
}

func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Printer writes each item as one line prefixed with its tag, for headless mode.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Render(it Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, "%-10s %s\n", "["+string(it.Tag)+"]", it.Text)
}

// Recorder keeps every rendered item in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Item
}

func (r *Recorder) Render(it Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, it)
}

// Items returns a copy of everything rendered so far.
func (r *Recorder) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Item(nil), r.items...)
}

// Tee renders every item to each sink in turn.
type Tee []Sink

func (t Tee) Render(it Item) {
	for _, s := range t {
		if s != nil {
			s.Render(it)
		}
	}
}
