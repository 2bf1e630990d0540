package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/td2-chat-translator/internal/persistence"
	"github.com/MimeLyc/td2-chat-translator/internal/service"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func isolatedEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_DIR", dir)
	t.Setenv("IGNORE_FILE", filepath.Join(dir, "ignore.txt"))
	t.Setenv("FIXED_TRANSLATIONS_FILE", filepath.Join(dir, "fixed.csv"))
	t.Setenv("TARGET_LANGUAGE", "English")
	t.Setenv("TRANSLATION_BACKEND", translator.BackendGoogle)
	t.Setenv("POLL_SCHEDULE", "@every 5s")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "ERROR")
	return dir
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, NewVersionCommand())
	assert.Equal(t, "td2-translator dev\n", out)
}

func TestLanguagesCommand(t *testing.T) {
	out := execute(t, NewLanguagesCommand())

	assert.Contains(t, out, "LANGUAGE")
	assert.Contains(t, out, "Deutsch")
	for _, line := range bytes.Split([]byte(out), []byte("\n")) {
		if bytes.HasPrefix(line, []byte("Serbian")) {
			assert.NotContains(t, string(line), translator.BackendDeepL)
		}
		if bytes.HasPrefix(line, []byte("German")) {
			assert.Contains(t, string(line), translator.BackendDeepL)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolatedEnv(t)

	store, err := persistence.NewSQLiteStore(filepath.Join(dir, "translations.db"))
	require.NoError(t, err)
	require.NoError(t, store.PutTranslation(context.Background(), translator.BackendGoogle, "german", "Test", "Prüfung"))
	require.NoError(t, store.Close())

	out := execute(t, NewCacheCommand(), "list")
	assert.Contains(t, out, "1 cached translations")
	assert.Contains(t, out, "Prüfung")

	out = execute(t, NewCacheCommand(), "purge")
	assert.Equal(t, "Removed 1 cached translations\n", out)

	out = execute(t, NewCacheCommand(), "list")
	assert.Contains(t, out, "0 cached translations")
}

func TestRunTranslator_EmptyLogDirectory(t *testing.T) {
	isolatedEnv(t)
	logDir := t.TempDir()

	err := runTranslator(context.Background(), &runOptions{logDir: logDir, headless: true})
	require.Error(t, err)
	assert.True(t, service.IsErrorType(err, service.ErrFileNotFound))
}

func TestRunTranslator_InvalidConfiguration(t *testing.T) {
	isolatedEnv(t)
	t.Setenv("TRANSLATION_BACKEND", "Babelfish")

	err := runTranslator(context.Background(), &runOptions{headless: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSLATION_BACKEND")
}
