package models

import "time"

// Event represents a recorded activity in the forum.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "post.create", "comment.delete"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *int64    `json:"userId,omitempty"`
	PostID    *int64    `json:"postId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
