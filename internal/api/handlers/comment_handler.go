package handlers

import (
	"net/http"

	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/services"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// CreateCommentPayload defines the structure for new comments. A missing
// parentId makes a top-level comment.
type CreateCommentPayload struct {
	Content  string `json:"content" validate:"required"`
	PostID   int64  `json:"postId" validate:"required,gt=0"`
	ParentID *int64 `json:"parentId" validate:"omitempty,gt=0"`
}

// UpdateCommentPayload defines the fields of a comment edit.
type UpdateCommentPayload struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// Create handles adding a comment as the caller.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	var payload CreateCommentPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	comment, err := h.service.Create(r.Context(), models.NewComment{
		Content:  payload.Content,
		PostID:   payload.PostID,
		ParentID: payload.ParentID,
	}, caller.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// GetAll handles listing comments, optionally for one post and matching a
// search text.
func (h *CommentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	postID, err := parseQueryID(r, "postId")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	comments, err := h.service.List(r.Context(), models.CommentFilter{
		PostID: postID,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// Get handles retrieving a single comment.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	comment, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// Update handles editing a comment owned by the caller.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var payload UpdateCommentPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	comment, err := h.service.Update(r.Context(), id, models.CommentPatch{Content: payload.Content}, caller.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// Delete handles removing a comment owned by the caller.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
