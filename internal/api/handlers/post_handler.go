package handlers

import (
	"net/http"

	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/services"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePostPayload defines the structure for new posts. Community defaults
// to "others".
type CreatePostPayload struct {
	Title     string           `json:"title" validate:"required,min=3"`
	Content   string           `json:"content" validate:"required,min=10"`
	Community models.Community `json:"community" validate:"omitempty,community"`
}

// UpdatePostPayload defines the fields of a partial post update.
type UpdatePostPayload struct {
	Title     *string           `json:"title" validate:"omitempty,min=3"`
	Content   *string           `json:"content" validate:"omitempty,min=10"`
	Community *models.Community `json:"community" validate:"omitempty,community"`
}

// Create handles publishing a post as the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	var payload CreatePostPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	post, err := h.service.Create(r.Context(), models.NewPost{
		Title:     payload.Title,
		Content:   payload.Content,
		Community: payload.Community,
	}, caller.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// GetAll handles listing posts, optionally filtered by search text and
// community.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := h.service.List(r.Context(), models.PostFilter{
		Search:    query.Get("search"),
		Community: models.Community(query.Get("community")),
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetMine handles listing the caller's own posts.
func (h *PostHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	query := r.URL.Query()
	posts, err := h.service.List(r.Context(), models.PostFilter{
		Search:    query.Get("search"),
		Community: models.Community(query.Get("community")),
		UserID:    caller.ID,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// Get handles retrieving a post with its comment tree.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	post, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Update handles editing a post owned by the caller.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	var payload UpdatePostPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	post, err := h.service.Update(r.Context(), id, models.PostPatch{
		Title:     payload.Title,
		Content:   payload.Content,
		Community: payload.Community,
	}, caller.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete handles removing a post owned by the caller.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.service.Remove(r.Context(), id, caller.ID); err != nil {
		RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
