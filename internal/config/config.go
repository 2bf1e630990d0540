package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MimeLyc/td2-chat-translator/internal/translator"
	"github.com/MimeLyc/td2-chat-translator/pkg/icron"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Config holds all application configuration, read from the environment.
//
// Environment Variables:
// Input:
// - LOG_DIR: Directory holding the game's log files (default: Documents/TTSK/TrainDriver2/Logs under $HOME)
// - IGNORE_FILE: One message body per line that is never shown (default: ignore.txt)
// - FIXED_TRANSLATIONS_FILE: CSV/YAML/JSON overrides (default: fixed_translations.csv)
//
// Polling:
// - POLL_SCHEDULE: cron expression or descriptor (default: @every 5s)
// - SKIP_BACKLOG: Start at the end of the log and translate only new lines (default: false)
//
// Translation defaults, overridden by the prefs file once the operator changes them:
// - TARGET_LANGUAGE (default: English)
// - TRANSLATION_BACKEND: ChatGPT | Google Translate | DeepL (default: Google Translate)
// - SHOW_ORIGINAL (default: true)
//
// Backends:
// - LLM_API_KEY, LLM_API_URL, LLM_MODEL, LLM_MAX_TOKENS, LLM_TEMPERATURE, LLM_TIMEOUT
// - GOOGLE_API_URL, GOOGLE_TIMEOUT
// - DEEPL_API_KEY, DEEPL_API_URL, DEEPL_TIMEOUT
//
// HTTP (local chat feed and remote control):
// - HTTP_ADDR: listen address, e.g. 127.0.0.1:8787 (default: empty, disabled)
// - HTTP_UI_DIR: static overlay page served at / (default: empty)
//
// System:
// - DATA_DIR: Cache database and prefs location (default: td2-translator under the user config dir)
// - CACHE_ENABLED (default: true), CACHE_TTL (default: 720h)
// - PREFS_FILE (default: DATA_DIR/prefs.toml)
// - LOG_LEVEL (default: INFO), LOG_FILE (default: DATA_DIR/td2-translator.log)
type Config struct {
	Input     InputConfig     `json:"input"`
	Poll      PollConfig      `json:"poll"`
	Translate TranslateConfig `json:"translate"`
	LLM       LLMConfig       `json:"llm"`
	Google    GoogleConfig    `json:"google"`
	DeepL     DeepLConfig     `json:"deepl"`
	HTTP      HTTPConfig      `json:"http"`
	System    SystemConfig    `json:"system"`
}

type InputConfig struct {
	LogDir                string `json:"log_dir"`
	IgnoreFile            string `json:"ignore_file"`
	FixedTranslationsFile string `json:"fixed_translations_file"`
}

type PollConfig struct {
	Schedule    string `json:"schedule"`
	SkipBacklog bool   `json:"skip_backlog"`
}

type TranslateConfig struct {
	TargetLanguage string `json:"target_language"`
	Backend        string `json:"backend"`
	ShowOriginal   bool   `json:"show_original"`
}

// LLMConfig configures the ChatGPT backend against any OpenAI-compatible API.
type LLMConfig struct {
	APIKey      string  `json:"-"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
}

type GoogleConfig struct {
	APIURL  string        `json:"api_url"`
	Timeout time.Duration `json:"timeout"`
}

type DeepLConfig struct {
	APIKey  string        `json:"-"`
	APIURL  string        `json:"api_url"`
	Timeout time.Duration `json:"timeout"`
}

type HTTPConfig struct {
	Addr  string `json:"addr"`
	UIDir string `json:"ui_dir"`
}

type SystemConfig struct {
	DataDir      string        `json:"data_dir"`
	CacheEnabled bool          `json:"cache_enabled"`
	CacheTTL     time.Duration `json:"cache_ttl"`
	PrefsFile    string        `json:"prefs_file"`
	LogLevel     string        `json:"log_level"`
	LogFile      string        `json:"log_file"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithLogDir overrides LOG_DIR, typically from a command line flag.
func WithLogDir(dir string) Option {
	return func(c *Config) {
		if strings.TrimSpace(dir) != "" {
			c.Input.LogDir = dir
		}
	}
}

// WithHTTPAddr overrides HTTP_ADDR when addr is not empty.
func WithHTTPAddr(addr string) Option {
	return func(c *Config) {
		if strings.TrimSpace(addr) != "" {
			c.HTTP.Addr = addr
		}
	}
}

// WithSkipBacklog overrides SKIP_BACKLOG.
func WithSkipBacklog(skip bool) Option {
	return func(c *Config) {
		c.Poll.SkipBacklog = c.Poll.SkipBacklog || skip
	}
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	dataDir := getEnvString("DATA_DIR", defaultDataDir())

	config := &Config{
		Input: InputConfig{
			LogDir:                getEnvString("LOG_DIR", defaultLogDir()),
			IgnoreFile:            getEnvString("IGNORE_FILE", "ignore.txt"),
			FixedTranslationsFile: getEnvString("FIXED_TRANSLATIONS_FILE", "fixed_translations.csv"),
		},
		Poll: PollConfig{
			Schedule:    getEnvString("POLL_SCHEDULE", "@every 5s"),
			SkipBacklog: getEnvBool("SKIP_BACKLOG", false),
		},
		Translate: TranslateConfig{
			TargetLanguage: getEnvString("TARGET_LANGUAGE", "English"),
			Backend:        getEnvString("TRANSLATION_BACKEND", translator.BackendGoogle),
			ShowOriginal:   getEnvBool("SHOW_ORIGINAL", true),
		},
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://api.openai.com/v1"),
			Model:       getEnvString("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 400),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
			Timeout:     getEnvInt("LLM_TIMEOUT", 30),
		},
		Google: GoogleConfig{
			APIURL:  getEnvString("GOOGLE_API_URL", "https://translate.googleapis.com/translate_a/single"),
			Timeout: getEnvDuration("GOOGLE_TIMEOUT", 10*time.Second),
		},
		DeepL: DeepLConfig{
			APIKey:  getEnvString("DEEPL_API_KEY", ""),
			APIURL:  getEnvString("DEEPL_API_URL", "https://api-free.deepl.com/v2/translate"),
			Timeout: getEnvDuration("DEEPL_TIMEOUT", 10*time.Second),
		},
		HTTP: HTTPConfig{
			Addr:  getEnvString("HTTP_ADDR", ""),
			UIDir: getEnvString("HTTP_UI_DIR", ""),
		},
		System: SystemConfig{
			DataDir:      dataDir,
			CacheEnabled: getEnvBool("CACHE_ENABLED", true),
			CacheTTL:     getEnvDuration("CACHE_TTL", 30*24*time.Hour),
			PrefsFile:    getEnvString("PREFS_FILE", filepath.Join(dataDir, "prefs.toml")),
			LogLevel:     getEnvString("LOG_LEVEL", "INFO"),
			LogFile:      getEnvString("LOG_FILE", filepath.Join(dataDir, "td2-translator.log")),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Debug("Config: %+v", config)
	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if strings.TrimSpace(c.Input.LogDir) == "" {
		return fmt.Errorf("LOG_DIR is required")
	}
	if _, err := icron.Parse(c.Poll.Schedule); err != nil {
		return fmt.Errorf("POLL_SCHEDULE: %w", err)
	}
	if !translator.IsKnownBackend(c.Translate.Backend) {
		return fmt.Errorf("TRANSLATION_BACKEND must be one of %s, got %q",
			strings.Join(translator.KnownBackends(), ", "), c.Translate.Backend)
	}
	if _, err := translator.LookupLanguage(c.Translate.TargetLanguage); err != nil {
		return fmt.Errorf("TARGET_LANGUAGE: %w", err)
	}
	if strings.TrimSpace(c.System.DataDir) == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
}

// DBPath returns the translation cache database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.System.DataDir, "translations.db")
}

// DefaultSelection is the selection used before any prefs file exists.
func (c *Config) DefaultSelection() translator.Selection {
	return translator.Selection{
		TargetLanguage: c.Translate.TargetLanguage,
		Backend:        c.Translate.Backend,
		ShowOriginal:   c.Translate.ShowOriginal,
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents", "TTSK", "TrainDriver2", "Logs")
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "td2-translator"
	}
	return filepath.Join(dir, "td2-translator")
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("10s") or whole seconds ("10").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
