package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// InsertEvent stores an analytics event. Re-inserting an existing id is a no-op.
func (db *DB) InsertEvent(ctx context.Context, e *Event) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}
	props := e.Properties
	if props == "" {
		props = "{}"
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO analytics_events (id, type, properties, flush, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		e.ID, e.Type, props, e.Flush, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// PendingEvents returns up to limit events not yet uploaded, oldest first.
func (db *DB) PendingEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return db.queryEvents(ctx, `
		SELECT id, type, properties, flush, created_at, COALESCE(flushed_at, 0)
		FROM analytics_events WHERE flushed_at IS NULL
		ORDER BY created_at ASC LIMIT ?`, limit)
}

// ListEvents returns the most recent events regardless of upload state.
func (db *DB) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return db.queryEvents(ctx, `
		SELECT id, type, properties, flush, created_at, COALESCE(flushed_at, 0)
		FROM analytics_events
		ORDER BY created_at DESC LIMIT ?`, limit)
}

// MarkEventsFlushed records that the given events were uploaded.
func (db *DB) MarkEventsFlushed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UnixMilli())
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	_, err := db.ExecContext(ctx,
		`UPDATE analytics_events SET flushed_at = ? WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("mark events flushed: %w", err)
	}
	return nil
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Properties, &e.Flush, &e.CreatedAt, &e.FlushedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
