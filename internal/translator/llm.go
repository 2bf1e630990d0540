package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// minDetectConfidence gates the source-language hint; short chat lines are often ambiguous.
const minDetectConfidence = 0.8

// ChatClient is the subset of llm.Client the ChatGPT backend needs.
type ChatClient interface {
	SimpleChat(ctx context.Context, prompt string, systemPrompt string) (string, error)
}

type llmBackend struct {
	client ChatClient
}

// NewLLM returns the ChatGPT backend on top of an OpenAI-compatible client.
// A nil client yields a backend that reports ErrNotConfigured on every call.
func NewLLM(client ChatClient) Backend {
	return &llmBackend{client: client}
}

func (b *llmBackend) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("%w: LLM_API_KEY is not set", ErrNotConfigured)
	}
	lang, err := LookupLanguage(targetLanguage)
	if err != nil {
		return "", err
	}

	out, err := b.client.SimpleChat(ctx, text, buildSystemPrompt(lang.Name, detectSource(text)))
	if err != nil {
		return "", err
	}
	out = cleanCompletion(out)
	if out == "" {
		return "", fmt.Errorf("model returned an empty translation")
	}
	return out, nil
}

func buildSystemPrompt(targetLanguage, sourceHint string) string {
	var prompt strings.Builder

	prompt.WriteString("You translate in-game chat messages from a railway simulator into " + targetLanguage + ".\n")
	prompt.WriteString("Rules:\n")
	prompt.WriteString("1. Reply with the translation only. No quotes, notes or explanations.\n")
	prompt.WriteString("2. Translate verbatim and keep numbers, signal names, station names and train numbers unchanged.\n")
	prompt.WriteString("3. The message may mix several languages or use slang; translate every part into " + targetLanguage + ".\n")
	prompt.WriteString("4. If the message cannot be understood as a sentence, translate it word by word.\n")
	prompt.WriteString("5. If the message is already in " + targetLanguage + ", return it unchanged.\n")
	if sourceHint != "" {
		prompt.WriteString("The message is most likely written in " + sourceHint + ".\n")
	}

	return prompt.String()
}

// detectSource names the message language when detection is confident enough.
func detectSource(text string) string {
	info := whatlanggo.Detect(text)
	if info.Confidence < minDetectConfidence {
		return ""
	}
	name := info.Lang.String()
	log.Debug("Detected source language %s (%.2f) for %q", name, info.Confidence, text)
	return name
}

func cleanCompletion(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
