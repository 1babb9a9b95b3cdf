package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekaraca/dolap/internal/model"
)

// InsertItem persists a new item and returns it. The store assigns the
// identity (an opaque UUID) and the created_at timestamp; profile and
// category are immutable afterwards. The image payload must already be
// validated by the transcoder — no size check happens here.
func InsertItem(ctx context.Context, db *sql.DB, profile model.Profile, category model.Category, image string) (*model.Item, error) {
	item := &model.Item{
		ID:        uuid.NewString(),
		Profile:   profile,
		Category:  category,
		Image:     image,
		CreatedAt: time.Now().UTC().UnixNano(),
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, profile, category, image, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Profile, item.Category, item.Image, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting item: %w", err)
	}

	return item, nil
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, profile, category, image, created_at FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Profile, &item.Category, &item.Image, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// QueryItems returns all items matching the filter, newest first. A
// filter category of CategoryAll drops the category predicate. An empty
// result is an empty (non-nil) slice, never an error.
func QueryItems(ctx context.Context, db *sql.DB, filter model.Filter) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if filter.Category != model.CategoryAll {
		rows, err = db.QueryContext(ctx,
			`SELECT id, profile, category, image, created_at FROM items
			 WHERE profile = ? AND category = ? ORDER BY created_at DESC`,
			filter.Profile, filter.Category,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, profile, category, image, created_at FROM items
			 WHERE profile = ? ORDER BY created_at DESC`,
			filter.Profile,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Profile, &item.Category, &item.Image, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteItem removes an item by identity. Deleting an ID that does not
// exist is not an error.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// CountItems returns the number of items stored for a profile.
func CountItems(ctx context.Context, db *sql.DB, profile model.Profile) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE profile = ?`, profile,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}
