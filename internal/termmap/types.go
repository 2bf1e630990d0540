// Package termmap holds operator-supplied fixed translations that bypass every backend.
package termmap

import "strings"

// Table maps lower(body) -> lower(target language) -> translation.
type Table map[string]map[string]string

// Entry is one fixed translation as it appears in CSV and YAML files.
type Entry struct {
	Text        string `yaml:"text"`
	Language    string `yaml:"language"`
	Translation string `yaml:"translation"`
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Add stores an entry, replacing any earlier translation for the same body and language.
func (t Table) Add(e Entry) {
	body, lang := key(e.Text), key(e.Language)
	if body == "" || lang == "" {
		return
	}
	langs, ok := t[body]
	if !ok {
		langs = make(map[string]string)
		t[body] = langs
	}
	langs[lang] = e.Translation
}

// Len returns the number of bodies with at least one translation.
func (t Table) Len() int {
	return len(t)
}
