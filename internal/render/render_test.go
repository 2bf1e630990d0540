package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelSink_PreservesOrderAndDropsAfterClose(t *testing.T) {
	s := NewChannelSink(4)
	s.Render(Item{Text: "a", Tag: TagOriginal})
	s.Render(Item{Text: "b", Tag: TagTranslated})
	s.Close()
	s.Render(Item{Text: "late", Tag: TagTranslated})
	s.Close()

	var got []string
	for it := range s.Items() {
		got = append(got, it.Text)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Render(Item{Text: "Original: (10:00:00) Foo@1: Test", Tag: TagOriginal})
	p.Render(Item{Text: "Translated: (10:00:00) Foo@1: Prüfung", Tag: TagTranslated})

	assert.Equal(t,
		"[original] Original: (10:00:00) Foo@1: Test\n"+
			"[translated] Translated: (10:00:00) Foo@1: Prüfung\n",
		buf.String())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	SinkFunc(r.Render).Render(Item{Text: "x", Tag: TagStatus})

	items := r.Items()
	assert.Equal(t, []Item{{Text: "x", Tag: TagStatus}}, items)

	items[0].Text = "changed"
	assert.Equal(t, "x", r.Items()[0].Text)
}

func TestTee(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	tee := Tee{a, nil, b}

	tee.Render(Item{Text: "one", Tag: TagOriginal})
	tee.Render(Item{Text: "two", Tag: TagTranslated})

	want := []Item{{Text: "one", Tag: TagOriginal}, {Text: "two", Tag: TagTranslated}}
	assert.Equal(t, want, a.Items())
	assert.Equal(t, want, b.Items())
}
