package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_TranslationRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.GetTranslation(ctx, "Google Translate", "german", "hello")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.PutTranslation(ctx, "Google Translate", "german", "hello", "Hallo"))

	got, ok, err := store.GetTranslation(ctx, "Google Translate", "german", "hello")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hallo", got)

	_, ok, err = store.GetTranslation(ctx, "DeepL", "german", "hello")
	require.NoError(t, err)
	assert.False(t, ok, "entries are scoped per backend")

	_, ok, err = store.GetTranslation(ctx, "Google Translate", "polish", "hello")
	require.NoError(t, err)
	assert.False(t, ok, "entries are scoped per language")
}

func TestSQLiteStore_PutReplacesAndCountsHits(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutTranslation(ctx, "DeepL", "english", "czesc", "hi"))
	require.NoError(t, store.PutTranslation(ctx, "DeepL", "english", "czesc", "hello"))
	for i := 0; i < 3; i++ {
		_, _, err := store.GetTranslation(ctx, "DeepL", "english", "czesc")
		require.NoError(t, err)
	}

	n, err := store.CountTranslations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := store.ListTranslations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hello", rows[0].Translation)
	assert.Equal(t, 3, rows[0].Hits)
}

func TestSQLiteStore_DeleteTranslationsBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	require.NoError(t, store.PutTranslation(ctx, "DeepL", "english", "old", "old"))
	store.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, store.PutTranslation(ctx, "DeepL", "english", "new", "new"))

	deleted, err := store.DeleteTranslationsBefore(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, ok, err := store.GetTranslation(ctx, "DeepL", "english", "old")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.GetTranslation(ctx, "DeepL", "english", "new")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.PutTranslation(ctx, "ChatGPT", "english", "tak", "yes"))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	got, ok, err := store.GetTranslation(ctx, "ChatGPT", "english", "tak")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "yes", got)
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.Error(t, err)
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, 1, migrationVersion("001_init.sql"))
	assert.Equal(t, 12, migrationVersion("12_more.sql"))
	assert.Equal(t, 0, migrationVersion("init.sql"))
}
