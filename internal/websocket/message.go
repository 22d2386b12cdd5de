package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Actions carried by live comment stream messages.
const (
	ActionCommentCreated = "comment_created"
	ActionCommentUpdated = "comment_updated"
	ActionCommentDeleted = "comment_deleted"
	ActionPing           = "ping"
	ActionPong           = "pong"
	ActionError          = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

// NewMessage encodes a message. It returns nil if payload cannot be encoded.
func NewMessage(action string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Error marshalling websocket message")
		return nil
	}
	return data
}

// NewErrorMessage encodes an error message for a single client.
func NewErrorMessage(message string) []byte {
	return NewMessage(ActionError, map[string]string{"message": message})
}
