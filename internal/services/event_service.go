package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, eventType, level, message string, userID, postID *int64)
	Recent(ctx context.Context, limit int) ([]models.Event, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// EventService records forum activity for the feed.
type EventService struct {
	events store.EventStore
	now    func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(events store.EventStore) *EventService {
	return &EventService{events: events, now: utcNow}
}

// Record logs a new event. Failures are logged and never reach the caller,
// the mutation that triggered the event has already succeeded.
func (s *EventService) Record(ctx context.Context, eventType, level, message string, userID, postID *int64) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: s.now(),
	}
	if err := s.events.Insert(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}

// Recent retrieves the most recent events. A non-positive limit selects the
// default; the limit is capped.
func (s *EventService) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	events, err := s.events.Recent(ctx, limit)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list events")
	}
	return events, nil
}

// Prune deletes events older than olderThan and reports how many went.
func (s *EventService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	n, err := s.events.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, apperr.Internal(err, "failed to prune events")
	}
	if n > 0 {
		log.Info().Int64("count", n).Time("cutoff", cutoff).Msg("Pruned old events")
	}
	return n, nil
}
