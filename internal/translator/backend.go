// Package translator routes chat bodies to fixed translations, the cache, or a
// pluggable machine translation backend.
package translator

import (
	"context"
	"errors"
)

// Backend identifiers as shown to the operator.
const (
	BackendChatGPT = "ChatGPT"
	BackendGoogle  = "Google Translate"
	BackendDeepL   = "DeepL"
)

var (
	// ErrUnsupportedLanguage is returned when a backend has no code for the target language.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrNotConfigured is returned by a backend missing its credentials.
	ErrNotConfigured = errors.New("backend not configured")
)

// Backend translates one message body into targetLanguage, a display name such as "German".
type Backend interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, text, targetLanguage string) (string, error)

func (f BackendFunc) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return f(ctx, text, targetLanguage)
}

// Registry maps backend identifiers to implementations.
type Registry map[string]Backend

// KnownBackends lists every identifier this package can build.
func KnownBackends() []string {
	return []string{BackendChatGPT, BackendDeepL, BackendGoogle}
}

// IsKnownBackend reports whether name is one of KnownBackends.
func IsKnownBackend(name string) bool {
	for _, b := range KnownBackends() {
		if b == name {
			return true
		}
	}
	return false
}

// NewRegistry builds every known backend. chat may be nil when no LLM is configured.
func NewRegistry(chat ChatClient, google GoogleConfig, deepl DeepLConfig) Registry {
	return Registry{
		BackendChatGPT: NewLLM(chat),
		BackendGoogle:  NewGoogle(google),
		BackendDeepL:   NewDeepL(deepl),
	}
}
