package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		version := migrationVersion(entry.Name())
		if entry.IsDir() || version <= 0 {
			continue
		}
		var applied int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if applied > 0 {
			continue
		}
		// embed.FS paths always use forward slashes
		content, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename ("001_init.sql" -> 1).
func migrationVersion(name string) int {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(name[:end])
	return n
}

// GetTranslation returns a cached translation and bumps its hit counter.
func (s *SQLiteStore) GetTranslation(ctx context.Context, backend, language, body string) (string, bool, error) {
	var translation string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT translation FROM translations WHERE backend = ? AND target_lang = ? AND body = ?`,
		backend, language, body,
	).Scan(&translation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query translation: %w", err)
	}

	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE translations SET hits = hits + 1 WHERE backend = ? AND target_lang = ? AND body = ?`,
		backend, language, body,
	); err != nil {
		return "", false, fmt.Errorf("update translation hits: %w", err)
	}
	return translation, true, nil
}

// PutTranslation inserts or replaces a translation.
func (s *SQLiteStore) PutTranslation(ctx context.Context, backend, language, body, translation string) error {
	now := s.now()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO translations (backend, target_lang, body, translation, hits, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)
		 ON CONFLICT(backend, target_lang, body) DO UPDATE SET
		   translation = excluded.translation,
		   updated_at = excluded.updated_at`,
		backend, language, body, translation, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

// ListTranslations returns rows ordered by most recently written first.
func (s *SQLiteStore) ListTranslations(ctx context.Context, limit int) ([]CachedTranslation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT backend, target_lang, body, translation, hits, created_at, updated_at
		 FROM translations
		 ORDER BY updated_at DESC, body ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	ret := make([]CachedTranslation, 0)
	for rows.Next() {
		var row CachedTranslation
		if err := rows.Scan(&row.Backend, &row.Language, &row.Body, &row.Translation, &row.Hits, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		ret = append(ret, row)
	}
	return ret, rows.Err()
}

// CountTranslations returns the number of cached rows.
func (s *SQLiteStore) CountTranslations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return n, nil
}

// DeleteTranslationsBefore drops rows not written since cutoff.
func (s *SQLiteStore) DeleteTranslationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired translations: %w", err)
	}
	return res.RowsAffected()
}
