package chatlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		want Message
	}{
		{
			name: "player colon separator",
			line: "(10:00:00) ChatMessage: Foo@1: Test",
			ok:   true,
			want: Message{Timestamp: "10:00:00", Speaker: "Foo", SpeakerID: "1", Category: CategoryPlayer, Body: "Test"},
		},
		{
			name: "player square bracket timestamp",
			line: "[14:02:11] ChatMessage: PlayerA@123: hello",
			ok:   true,
			want: Message{Timestamp: "14:02:11", Speaker: "PlayerA", SpeakerID: "123", Category: CategoryPlayer, Body: "hello"},
		},
		{
			name: "player space separator",
			line: "(08:15:30) ChatMessage: Kasia@77 dzien dobry",
			ok:   true,
			want: Message{Timestamp: "08:15:30", Speaker: "Kasia", SpeakerID: "77", Category: CategoryPlayer, Body: "dzien dobry"},
		},
		{
			name: "player with markup and prefix",
			line: `ChatMessage: <color=#00ff00>[Radio](12:34:56) Hans@9: <b>Signal   frei</b> </color>`,
			ok:   true,
			want: Message{Prefix: "[Radio]", Timestamp: "12:34:56", Speaker: "Hans", SpeakerID: "9", Category: CategoryPlayer, Body: "Signal   frei"},
		},
		{
			name: "broadcast",
			line: "(10:00:05) ChatMessage: [Dispatcher (42)] Train 4512 may depart",
			ok:   true,
			want: Message{Timestamp: "10:00:05", Speaker: "Dispatcher", SpeakerID: "42", Category: CategoryBroadcast, Body: "Train 4512 may depart"},
		},
		{
			name: "broadcast speaker with spaces",
			line: "(10:00:05) ChatMessage: [Station Master (Lk)]   Platform 2 closed  ",
			ok:   true,
			want: Message{Timestamp: "10:00:05", Speaker: "Station Master", SpeakerID: "Lk", Category: CategoryBroadcast, Body: "Platform 2 closed"},
		},
		{name: "missing timestamp", line: "ChatMessage: Foo@1: hello"},
		{name: "missing marker", line: "(10:00:00) Foo@1: hello"},
		{name: "unrelated log line", line: "(10:00:00) Loaded scenery Katowice"},
		{name: "marker but no grammar", line: "(10:00:00) ChatMessage: something odd happened"},
		{name: "empty body", line: "(10:00:00) ChatMessage: Foo@1:   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.line)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsCandidate(t *testing.T) {
	assert.True(t, IsCandidate("(10:00:00) ChatMessage: Foo@1: Test"))
	assert.True(t, IsCandidate("[10:00:00] ChatMessage: anything"))
	assert.False(t, IsCandidate("ChatMessage: no time here"))
	assert.False(t, IsCandidate("(10:00:00) no marker"))
	assert.False(t, IsCandidate("(1:00:00) ChatMessage: short hour"))
}

func TestMessage_Header(t *testing.T) {
	player, ok := Classify("[Radio](10:00:00) ChatMessage: Foo@1: Test")
	require.True(t, ok)
	assert.Equal(t, "[Radio](10:00:00) Foo@1", player.Header())

	broadcast, ok := Classify("(10:00:05) ChatMessage: [Dispatcher (42)] Go")
	require.True(t, ok)
	assert.Equal(t, "(10:00:05) [Dispatcher (42)]", broadcast.Header())
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "player", CategoryPlayer.String())
	assert.Equal(t, "broadcast", CategoryBroadcast.String())
	assert.Equal(t, "unknown", Category(9).String())
}
