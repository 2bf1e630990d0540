package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnore_ExactMatch(t *testing.T) {
	s := New("gg", "  o7  ", "")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.ShouldIgnore("gg"))
	assert.True(t, s.ShouldIgnore("o7"))
	assert.False(t, s.ShouldIgnore("GG"))
	assert.False(t, s.ShouldIgnore("gg wp"))
	assert.False(t, s.ShouldIgnore(""))
}

func TestShouldIgnore_NilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.ShouldIgnore("anything"))
	assert.Equal(t, 0, s.Len())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi\r\n\n  thx \nnp\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.ShouldIgnore("hi"))
	assert.True(t, s.ShouldIgnore("thx"))
	assert.True(t, s.ShouldIgnore("np"))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_EmptyPath(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}
