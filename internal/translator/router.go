package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/MimeLyc/td2-chat-translator/internal/termmap"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Selection is the operator's current choice, captured once per batch.
type Selection struct {
	TargetLanguage string
	Backend        string
	ShowOriginal   bool
}

// Source records which stage produced a Result.
type Source string

const (
	SourceFixed   Source = "fixed"
	SourceCache   Source = "cache"
	SourceBackend Source = "backend"
	SourceError   Source = "error"
)

// Result is the routed translation. Failed results carry a readable description in Text.
type Result struct {
	Text   string
	Source Source
	Failed bool
}

// Cache stores successful backend translations keyed by backend, language and body.
type Cache interface {
	GetTranslation(ctx context.Context, backend, language, body string) (string, bool, error)
	PutTranslation(ctx context.Context, backend, language, body, translation string) error
}

// Router resolves a body through fixed translations, the cache and finally a backend.
type Router struct {
	fixed    termmap.Table
	backends Registry
	cache    Cache
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithCache enables the translation cache.
func WithCache(c Cache) RouterOption {
	return func(r *Router) {
		r.cache = c
	}
}

// NewRouter builds a Router over the fixed table and backends. A nil table
// matches nothing.
func NewRouter(fixed termmap.Table, backends Registry, opts ...RouterOption) *Router {
	r := &Router{fixed: fixed, backends: backends}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Translate never fails: backend errors come back as inline text.
func (r *Router) Translate(ctx context.Context, body string, sel Selection) Result {
	if text, ok := r.fixed.Lookup(body, sel.TargetLanguage); ok {
		return Result{Text: text, Source: SourceFixed}
	}

	backend, ok := r.backends[sel.Backend]
	if !ok {
		return failure(fmt.Sprintf("Unknown translation backend %q", sel.Backend))
	}

	lang := strings.ToLower(strings.TrimSpace(sel.TargetLanguage))
	if r.cache != nil {
		cached, hit, err := r.cache.GetTranslation(ctx, sel.Backend, lang, body)
		if err != nil {
			log.Warn("Translation cache read failed: %v", err)
		} else if hit {
			return Result{Text: cached, Source: SourceCache}
		}
	}

	text, err := backend.Translate(ctx, body, sel.TargetLanguage)
	if err != nil {
		log.Error("%s failed to translate %q into %s: %v", sel.Backend, body, sel.TargetLanguage, err)
		return failure(fmt.Sprintf("%s error: %v", sel.Backend, err))
	}

	if r.cache != nil {
		if err := r.cache.PutTranslation(ctx, sel.Backend, lang, body, text); err != nil {
			log.Warn("Translation cache write failed: %v", err)
		}
	}
	return Result{Text: text, Source: SourceBackend}
}

func failure(text string) Result {
	return Result{Text: text, Source: SourceError, Failed: true}
}
