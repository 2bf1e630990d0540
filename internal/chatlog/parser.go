package chatlog

import (
	"regexp"
	"strings"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Marker is the literal the game writes on every chat event line.
const Marker = "ChatMessage:"

var (
	timestampPattern = regexp.MustCompile(`[(\[]\d{2}:\d{2}:\d{2}[)\]]`)
	markupPattern    = regexp.MustCompile(`<[^<>]*>`)

	// <prefix>(<time>) <speaker>@<id><": " | " "><body>
	playerPattern = regexp.MustCompile(
		`^(.*?)[(\[](\d{2}:\d{2}:\d{2})[)\]]\s+([^\s@:\[\]]+)@([^\s:]+)(?:: | )(.*)$`)

	// <prefix>(<time>) [<speaker> (<id>)] <body>
	broadcastPattern = regexp.MustCompile(
		`^(.*?)[(\[](\d{2}:\d{2}:\d{2})[)\]]\s+\[([^\]]+?)\s+\(([^)]*)\)\]\s*(.*)$`)
)

// IsCandidate reports whether line carries the chat marker and a timestamp.
// It is the cheap test the poller applies before queueing a line.
func IsCandidate(line string) bool {
	return strings.Contains(line, Marker) && timestampPattern.MatchString(line)
}

// Classify parses a raw log line. Lines that are not chat events, or whose text
// matches neither the player nor the broadcast grammar, are rejected.
func Classify(line string) (Message, bool) {
	if !IsCandidate(line) {
		return Message{}, false
	}

	text := markupPattern.ReplaceAllString(line, "")
	text = strings.Replace(text, Marker, "", 1)
	text = strings.TrimSpace(text)

	if m := playerPattern.FindStringSubmatch(text); m != nil {
		return build(m, CategoryPlayer)
	}
	if m := broadcastPattern.FindStringSubmatch(text); m != nil {
		return build(m, CategoryBroadcast)
	}

	log.Debug("Unrecognised chat line: %q", line)
	return Message{}, false
}

func build(groups []string, category Category) (Message, bool) {
	msg := Message{
		Prefix:    strings.TrimSpace(groups[1]),
		Timestamp: groups[2],
		Speaker:   strings.TrimSpace(groups[3]),
		SpeakerID: strings.TrimSpace(groups[4]),
		Category:  category,
		Body:      strings.TrimSpace(groups[5]),
	}
	if msg.Body == "" {
		return Message{}, false
	}
	return msg, true
}
