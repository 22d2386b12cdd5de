package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isdelr/board-be/internal/database"
	"github.com/isdelr/board-be/internal/models"
)

// EventStore persists the activity feed.
type EventStore interface {
	Insert(ctx context.Context, event models.Event) error
	Recent(ctx context.Context, limit int) ([]models.Event, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SQLEventStore is the database-backed EventStore.
type SQLEventStore struct {
	db *database.DB
}

// NewEventStore creates a new SQLEventStore.
func NewEventStore(db *database.DB) *SQLEventStore {
	return &SQLEventStore{db: db}
}

// Insert logs a new event to the database.
func (s *SQLEventStore) Insert(ctx context.Context, event models.Event) error {
	query := s.db.Rebind("INSERT INTO events (id, type, level, message, user_id, post_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.Type, event.Level, event.Message, nullableID(event.UserID), nullableID(event.PostID), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Recent retrieves the most recent events from the database.
func (s *SQLEventStore) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	query := s.db.Rebind("SELECT id, type, level, message, user_id, post_id, created_at FROM events ORDER BY created_at DESC, id ASC LIMIT ?")
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var userID, postID sql.NullInt64
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &userID, &postID, &event.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			event.UserID = &userID.Int64
		}
		if postID.Valid {
			event.PostID = &postID.Int64
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// DeleteBefore removes events created before cutoff and reports how many went.
func (s *SQLEventStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM events WHERE created_at < ?"), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	return res.RowsAffected()
}
