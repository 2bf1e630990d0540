package termmap

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Load reads a fixed-translation table, choosing the format by extension:
//
//	.csv          text,language,translation (header row required)
//	.yaml, .yml   list of {text, language, translation}
//	.json         {"text": {"language": "translation"}}
//
// An empty path or a missing file yields an empty table.
func Load(path string) (Table, error) {
	table := make(Table)
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-provided table
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Fixed translations file %s not found, continuing without overrides", path)
			return table, nil
		}
		return nil, fmt.Errorf("read fixed translations: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		err = loadCSV(table, data)
	case ".yaml", ".yml":
		err = loadYAML(table, data)
	case ".json":
		err = loadJSON(table, data)
	default:
		return nil, fmt.Errorf("unsupported fixed translations format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse fixed translations %s: %w", path, err)
	}

	log.Info("Loaded fixed translations for %d messages from %s", table.Len(), path)
	return table, nil
}

func loadCSV(t Table, data []byte) error {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 3

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[key(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range []string{"text", "language", "translation"} {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("missing column %q", name)
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		t.Add(Entry{
			Text:        rec[cols["text"]],
			Language:    rec[cols["language"]],
			Translation: rec[cols["translation"]],
		})
	}
}

func loadYAML(t Table, data []byte) error {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		t.Add(e)
	}
	return nil
}

func loadJSON(t Table, data []byte) error {
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for text, langs := range raw {
		for lang, translation := range langs {
			t.Add(Entry{Text: text, Language: lang, Translation: translation})
		}
	}
	return nil
}
