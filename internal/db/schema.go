package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Items are the single collection:
// the image payload is stored inline as a data URL, and created_at is a
// unix-nanosecond timestamp assigned by the store on insert. The image
// CHECK is a backstop only; the transcoder enforces the real size
// ceiling before a write is attempted.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id         TEXT PRIMARY KEY,
    profile    TEXT NOT NULL CHECK (profile IN ('men', 'women')),
    category   TEXT NOT NULL CHECK (category IN ('head', 'top', 'bottom', 'shoes', 'accessory')),
    image      TEXT NOT NULL CHECK (length(image) > 0),
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_profile_created
    ON items(profile, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_items_profile_category_created
    ON items(profile, category, created_at DESC);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
