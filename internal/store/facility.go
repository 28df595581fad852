package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertFacility inserts or updates a facility record.
func (db *DB) UpsertFacility(ctx context.Context, f *Facility) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO facilities (id, name, short_name, app_key, map_key, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			short_name = excluded.short_name,
			app_key = excluded.app_key,
			map_key = excluded.map_key,
			updated_at = excluded.updated_at`,
		f.ID, f.Name, f.ShortName, f.AppKey, f.MapKey, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert facility %s: %w", f.ID, err)
	}
	return nil
}

// GetFacility returns the facility with id, or ErrNotFound.
func (db *DB) GetFacility(ctx context.Context, id string) (*Facility, error) {
	var f Facility
	err := db.QueryRowContext(ctx, `
		SELECT id, name, short_name, app_key, map_key FROM facilities WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.ShortName, &f.AppKey, &f.MapKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get facility %s: %w", id, err)
	}
	return &f, nil
}

// ListFacilities returns all cached facilities sorted by name.
func (db *DB) ListFacilities(ctx context.Context) ([]Facility, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, short_name, app_key, map_key FROM facilities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.ShortName, &f.AppKey, &f.MapKey); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
