package termmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_CaseInsensitive(t *testing.T) {
	tm := make(Table)
	tm.Add(Entry{Text: "Dzien dobry", Language: "English", Translation: "Good morning"})
	tm.Add(Entry{Text: "dzien dobry", Language: "German", Translation: "Guten Morgen"})

	got, ok := tm.Lookup("DZIEN DOBRY", "english")
	assert.True(t, ok)
	assert.Equal(t, "Good morning", got)

	got, ok = tm.Lookup("  dzien dobry ", "GERMAN")
	assert.True(t, ok)
	assert.Equal(t, "Guten Morgen", got)

	_, ok = tm.Lookup("dzien dobry", "French")
	assert.False(t, ok)

	_, ok = tm.Lookup("czesc", "English")
	assert.False(t, ok)
}

func TestLookup_TranslationReturnedVerbatim(t *testing.T) {
	tm := make(Table)
	tm.Add(Entry{Text: "sbl", Language: "English", Translation: "Automatic Block Signalling (SBL)"})

	got, ok := tm.Lookup("SBL", "English")
	assert.True(t, ok)
	assert.Equal(t, "Automatic Block Signalling (SBL)", got)
}

func TestAdd_LaterEntryWins(t *testing.T) {
	tm := make(Table)
	tm.Add(Entry{Text: "ok", Language: "English", Translation: "first"})
	tm.Add(Entry{Text: "OK", Language: "english", Translation: "second"})

	got, _ := tm.Lookup("ok", "English")
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, tm.Len())
}

func TestAdd_SkipsIncompleteEntries(t *testing.T) {
	tm := make(Table)
	tm.Add(Entry{Text: "", Language: "English", Translation: "x"})
	tm.Add(Entry{Text: "y", Language: " ", Translation: "x"})
	assert.Equal(t, 0, tm.Len())
}

func TestLookup_NilTable(t *testing.T) {
	var tm Table
	_, ok := tm.Lookup("a", "b")
	assert.False(t, ok)
}
