// Package ignore holds the set of chat bodies that are never translated or shown.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/MimeLyc/td2-chat-translator/pkg/log"
)

// Set is an immutable collection of exact message bodies.
type Set struct {
	bodies map[string]struct{}
}

// New builds a set from the given bodies. Bodies are trimmed; blanks are dropped.
func New(bodies ...string) *Set {
	s := &Set{bodies: make(map[string]struct{}, len(bodies))}
	for _, b := range bodies {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		s.bodies[b] = struct{}{}
	}
	return s
}

// Load reads one body per line from path. A missing file yields an empty set.
func Load(path string) (*Set, error) {
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path) // #nosec G304 -- operator-provided ignore list
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Ignore list %s not found, nothing will be ignored", path)
			return New(), nil
		}
		return nil, fmt.Errorf("open ignore list: %w", err)
	}
	defer f.Close()

	var bodies []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		bodies = append(bodies, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore list: %w", err)
	}

	s := New(bodies...)
	log.Info("Loaded %d ignored messages from %s", s.Len(), path)
	return s, nil
}

// ShouldIgnore reports whether body is an exact, case-sensitive member.
func (s *Set) ShouldIgnore(body string) bool {
	if s == nil {
		return false
	}
	_, ok := s.bodies[body]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}
