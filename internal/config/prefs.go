package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/MimeLyc/td2-chat-translator/internal/translator"
	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Prefs is the operator's persisted selection. Missing keys keep the env defaults.
type Prefs struct {
	TargetLanguage string `toml:"target_language,omitempty"`
	Backend        string `toml:"backend,omitempty"`
	ShowOriginal   *bool  `toml:"show_original,omitempty"`
}

// Apply overlays the stored values on base, ignoring values that no longer validate.
func (p Prefs) Apply(base translator.Selection) translator.Selection {
	sel := base
	if lang, err := translator.LookupLanguage(p.TargetLanguage); err == nil {
		sel.TargetLanguage = lang.Name
	}
	if translator.IsKnownBackend(p.Backend) {
		sel.Backend = p.Backend
	}
	if p.ShowOriginal != nil {
		sel.ShowOriginal = *p.ShowOriginal
	}
	return sel
}

func prefsFrom(sel translator.Selection) Prefs {
	show := sel.ShowOriginal
	return Prefs{TargetLanguage: sel.TargetLanguage, Backend: sel.Backend, ShowOriginal: &show}
}

// LoadPrefs reads the prefs file. Missing or unreadable files yield empty prefs.
func LoadPrefs(path string) Prefs {
	if strings.TrimSpace(path) == "" {
		return Prefs{}
	}
	data, err := os.ReadFile(path) // #nosec G304 -- prefs path from config
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("Ignoring unreadable prefs file %s: %v", path, err)
		}
		return Prefs{}
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		log.Warn("Ignoring malformed prefs file %s: %v", path, err)
		return Prefs{}
	}
	return p
}

// SavePrefs writes the prefs file atomically, creating directories as needed.
func SavePrefs(path string, p Prefs) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	content, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// SelectionStore is the last-write-wins holder of the operator's selection.
// Readers take a snapshot; every update is persisted to the prefs file.
type SelectionStore struct {
	path string

	mu      sync.RWMutex
	current translator.Selection
}

// NewSelectionStore starts from defaults overlaid with whatever the prefs file holds.
func NewSelectionStore(path string, defaults translator.Selection) *SelectionStore {
	return &SelectionStore{
		path:    path,
		current: LoadPrefs(path).Apply(defaults),
	}
}

// Selection returns the current snapshot.
func (s *SelectionStore) Selection() translator.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy of the selection, validates it, persists it and
// makes it current. On error the previous selection stays in effect.
func (s *SelectionStore) Update(fn func(*translator.Selection)) (translator.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)

	lang, err := translator.LookupLanguage(next.TargetLanguage)
	if err != nil {
		return s.current, err
	}
	next.TargetLanguage = lang.Name
	if !translator.IsKnownBackend(next.Backend) {
		return s.current, fmt.Errorf("unknown translation backend %q", next.Backend)
	}

	if err := SavePrefs(s.path, prefsFrom(next)); err != nil {
		log.Warn("Selection changed but could not be saved: %v", err)
	}
	s.current = next
	return next, nil
}

// CycleBackend switches to the next known backend.
func (s *SelectionStore) CycleBackend() (translator.Selection, error) {
	return s.Update(func(sel *translator.Selection) {
		sel.Backend = nextOption(translator.KnownBackends(), sel.Backend)
	})
}

// CycleLanguage switches to the next supported target language.
func (s *SelectionStore) CycleLanguage() (translator.Selection, error) {
	return s.Update(func(sel *translator.Selection) {
		sel.TargetLanguage = nextOption(translator.LanguageNames(), sel.TargetLanguage)
	})
}

// ToggleShowOriginal flips whether originals are rendered above translations.
func (s *SelectionStore) ToggleShowOriginal() (translator.Selection, error) {
	return s.Update(func(sel *translator.Selection) {
		sel.ShowOriginal = !sel.ShowOriginal
	})
}

func nextOption(options []string, current string) string {
	for i, o := range options {
		if strings.EqualFold(o, current) {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
