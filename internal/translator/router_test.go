package translator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/td2-chat-translator/internal/termmap"
)

type memCache struct {
	mu    sync.Mutex
	items map[string]string
	puts  int
	err   error
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string]string)}
}

func (c *memCache) GetTranslation(_ context.Context, backend, language, body string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.items[backend+"|"+language+"|"+body]
	return v, ok, nil
}

func (c *memCache) PutTranslation(_ context.Context, backend, language, body, translation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.items[backend+"|"+language+"|"+body] = translation
	return c.err
}

func countingBackend(calls *int, text string, err error) Backend {
	return BackendFunc(func(ctx context.Context, body, lang string) (string, error) {
		*calls++
		return text, err
	})
}

func TestRouter_FixedTranslationWinsOverUnreachableBackend(t *testing.T) {
	fixed := make(termmap.Table)
	fixed.Add(termmap.Entry{Text: "Dzien dobry", Language: "English", Translation: "Good morning"})

	calls := 0
	r := NewRouter(fixed, Registry{
		BackendGoogle: countingBackend(&calls, "", errors.New("dial tcp: connection refused")),
	})

	res := r.Translate(context.Background(), "dzien DOBRY", Selection{TargetLanguage: "english", Backend: BackendGoogle})
	assert.Equal(t, Result{Text: "Good morning", Source: SourceFixed}, res)
	assert.Equal(t, 0, calls)
}

func TestRouter_FixedTranslationForOtherLanguageFallsThrough(t *testing.T) {
	fixed := make(termmap.Table)
	fixed.Add(termmap.Entry{Text: "hello", Language: "German", Translation: "Hallo"})

	calls := 0
	r := NewRouter(fixed, Registry{BackendGoogle: countingBackend(&calls, "Czesc", nil)})

	res := r.Translate(context.Background(), "hello", Selection{TargetLanguage: "Polish", Backend: BackendGoogle})
	assert.Equal(t, "Czesc", res.Text)
	assert.Equal(t, SourceBackend, res.Source)
	assert.Equal(t, 1, calls)
}

func TestRouter_BackendErrorBecomesInlineText(t *testing.T) {
	calls := 0
	r := NewRouter(nil, Registry{BackendDeepL: countingBackend(&calls, "", errors.New("quota exceeded"))})

	res := r.Translate(context.Background(), "hi", Selection{TargetLanguage: "German", Backend: BackendDeepL})
	assert.True(t, res.Failed)
	assert.Equal(t, SourceError, res.Source)
	assert.Contains(t, res.Text, "DeepL")
	assert.Contains(t, res.Text, "quota exceeded")
}

func TestRouter_UnknownBackend(t *testing.T) {
	r := NewRouter(nil, Registry{})

	res := r.Translate(context.Background(), "hi", Selection{TargetLanguage: "German", Backend: "Babelfish"})
	assert.True(t, res.Failed)
	assert.Contains(t, res.Text, "Babelfish")
}

func TestRouter_CachesSuccessesOnly(t *testing.T) {
	cache := newMemCache()
	calls := 0
	failing := 0
	r := NewRouter(nil, Registry{
		BackendGoogle: countingBackend(&calls, "Hallo", nil),
		BackendDeepL:  countingBackend(&failing, "", errors.New("down")),
	}, WithCache(cache))
	ctx := context.Background()
	sel := Selection{TargetLanguage: "German", Backend: BackendGoogle}

	first := r.Translate(ctx, "hello", sel)
	second := r.Translate(ctx, "hello", Selection{TargetLanguage: " GERMAN ", Backend: BackendGoogle})
	assert.Equal(t, Result{Text: "Hallo", Source: SourceBackend}, first)
	assert.Equal(t, Result{Text: "Hallo", Source: SourceCache}, second)
	assert.Equal(t, 1, calls)

	r.Translate(ctx, "hello", Selection{TargetLanguage: "German", Backend: BackendDeepL})
	r.Translate(ctx, "hello", Selection{TargetLanguage: "German", Backend: BackendDeepL})
	assert.Equal(t, 2, failing)
	assert.Equal(t, 1, cache.puts)
}

func TestRouter_CacheErrorsDoNotBlockTranslation(t *testing.T) {
	cache := newMemCache()
	cache.err = errors.New("disk I/O error")
	calls := 0
	r := NewRouter(nil, Registry{BackendGoogle: countingBackend(&calls, "Hallo", nil)}, WithCache(cache))

	res := r.Translate(context.Background(), "hello", Selection{TargetLanguage: "German", Backend: BackendGoogle})
	assert.Equal(t, Result{Text: "Hallo", Source: SourceBackend}, res)
}

func TestRouter_SelectionAppliedPerCall(t *testing.T) {
	var langs []string
	r := NewRouter(nil, Registry{
		BackendGoogle: BackendFunc(func(ctx context.Context, body, lang string) (string, error) {
			langs = append(langs, lang)
			return body + "@" + lang, nil
		}),
	})

	ctx := context.Background()
	r.Translate(ctx, "a", Selection{TargetLanguage: "German", Backend: BackendGoogle})
	r.Translate(ctx, "a", Selection{TargetLanguage: "Polish", Backend: BackendGoogle})
	assert.Equal(t, []string{"German", "Polish"}, langs)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(nil, GoogleConfig{}, DeepLConfig{})
	require.Len(t, reg, len(KnownBackends()))
	for _, name := range KnownBackends() {
		assert.Contains(t, reg, name)
	}
	assert.True(t, IsKnownBackend(BackendGoogle))
	assert.False(t, IsKnownBackend("Bing"))

	_, err := reg[BackendChatGPT].Translate(context.Background(), "hi", "German")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
