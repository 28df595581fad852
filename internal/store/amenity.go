package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertAmenity inserts or replaces a cached amenity document.
func (db *DB) UpsertAmenity(ctx context.Context, a *Amenity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO amenities (id, dest, title, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dest = excluded.dest,
			title = excluded.title,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		a.ID, a.Dest, a.Title, string(a.Payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert amenity %s: %w", a.ID, err)
	}
	return nil
}

// GetAmenity returns the cached amenity with id, or ErrNotFound.
func (db *DB) GetAmenity(ctx context.Context, id string) (*Amenity, error) {
	var a Amenity
	var payload string
	err := db.QueryRowContext(ctx, `
		SELECT id, dest, title, payload, updated_at FROM amenities WHERE id = ?`, id).
		Scan(&a.ID, &a.Dest, &a.Title, &payload, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get amenity %s: %w", id, err)
	}
	a.Payload = []byte(payload)
	return &a, nil
}
