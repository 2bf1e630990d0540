package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultDeepLURL = "https://api-free.deepl.com/v2/translate"

// DeepLConfig configures the DeepL REST API.
type DeepLConfig struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
}

type deepLBackend struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

type deepLRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type deepLResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
	Message string `json:"message"`
}

// NewDeepL returns a DeepL backend. A missing key is reported per call, not here,
// so the operator can still pick other backends.
func NewDeepL(cfg DeepLConfig) Backend {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultDeepLURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &deepLBackend{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (d *deepLBackend) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	lang, err := LookupLanguage(targetLanguage)
	if err != nil {
		return "", err
	}
	if lang.DeepL == "" {
		return "", fmt.Errorf("%w: DeepL cannot translate into %s", ErrUnsupportedLanguage, lang.Name)
	}
	if d.apiKey == "" {
		return "", fmt.Errorf("%w: DEEPL_API_KEY is not set", ErrNotConfigured)
	}

	payload, err := json.Marshal(deepLRequest{Text: []string{text}, TargetLang: lang.DeepL})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepl request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read deepl response: %w", err)
	}

	var parsed deepLResponse
	_ = json.Unmarshal(body, &parsed)

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("deepl rejected the API key (status 403)")
	case resp.StatusCode == 456:
		return "", fmt.Errorf("deepl quota exceeded (status 456)")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg := parsed.Message
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", fmt.Errorf("deepl request failed with status %d: %s", resp.StatusCode, msg)
	}

	if len(parsed.Translations) == 0 {
		return "", fmt.Errorf("translation not found in deepl response")
	}
	return parsed.Translations[0].Text, nil
}
