package handlers

import (
	"net/http"

	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserPayload defines the fields a user may change on their profile.
type UpdateUserPayload struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// GetAll handles listing every user.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	user, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles updating the caller's own profile.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var payload UpdateUserPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	user, err := h.service.Update(r.Context(), id, models.UserPatch{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}, caller.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete handles the permanent deletion of the caller's own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
