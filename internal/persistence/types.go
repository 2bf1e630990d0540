// Package persistence stores backend translations in SQLite so repeated chat lines
// do not cost another network round trip.
package persistence

import "time"

// CachedTranslation is one row of the translation cache.
type CachedTranslation struct {
	Backend     string
	Language    string
	Body        string
	Translation string
	Hits        int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
