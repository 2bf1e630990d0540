package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// GoogleConfig configures the public Google translate endpoint.
type GoogleConfig struct {
	APIURL  string
	Timeout time.Duration
}

type googleBackend struct {
	apiURL     string
	httpClient *http.Client
}

// NewGoogle returns a backend using Google's gtx endpoint with automatic source detection.
func NewGoogle(cfg GoogleConfig) Backend {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultGoogleURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &googleBackend{
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *googleBackend) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	lang, err := LookupLanguage(targetLanguage)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", lang.GoogleCode())
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read google response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("google rate limit exceeded (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("google request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a gtx response:
//
//	[[["Guten Morgen","Good morning",null,null,10]],null,"en",...]
func parseGoogleResponse(body []byte) (string, error) {
	var root []any
	if err := json.Unmarshal(body, &root); err != nil {
		return "", fmt.Errorf("failed to parse google response: %w", err)
	}
	if len(root) == 0 {
		return "", fmt.Errorf("empty google response")
	}
	segments, ok := root[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected google response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("translation not found in google response")
	}
	return b.String(), nil
}
