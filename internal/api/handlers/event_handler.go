package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/board-be/internal/services"
)

// EventHandler handles HTTP requests for the activity feed.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent activity/events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	// Missing or malformed limits fall back to the service default.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}
