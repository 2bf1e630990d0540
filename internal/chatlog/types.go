// Package chatlog extracts chat messages from raw game log lines.
package chatlog

import "strings"

// Category distinguishes player chat from bracketed system announcements.
type Category int

const (
	CategoryPlayer Category = iota
	CategoryBroadcast
)

func (c Category) String() string {
	switch c {
	case CategoryPlayer:
		return "player"
	case CategoryBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// Message is one classified chat line. Body is trimmed and is the identity used
// for ignore and fixed-translation lookups.
type Message struct {
	Prefix    string
	Timestamp string
	Speaker   string
	SpeakerID string
	Category  Category
	Body      string
}

// Header renders the part of the line that precedes the body, e.g.
// "[Radio](10:00:00) Foo@1" or "(10:00:00) [Dispatcher (42)]".
func (m Message) Header() string {
	var b strings.Builder
	b.WriteString(m.Prefix)
	b.WriteString("(")
	b.WriteString(m.Timestamp)
	b.WriteString(") ")
	switch m.Category {
	case CategoryBroadcast:
		b.WriteString("[" + m.Speaker + " (" + m.SpeakerID + ")]")
	default:
		b.WriteString(m.Speaker + "@" + m.SpeakerID)
	}
	return b.String()
}
