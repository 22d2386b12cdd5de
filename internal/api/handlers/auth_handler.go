package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/auth"
	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/services"
)

// AuthHandler handles login and session introspection.
type AuthHandler struct {
	auth         services.AuthServiceProvider
	users        services.UserServiceProvider
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the token
// cookie Secure, which production deployments need.
func NewAuthHandler(authService services.AuthServiceProvider, users services.UserServiceProvider, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, users: users, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

// LoginPayload defines the structure for login requests. Username wins when
// both identifiers are sent.
type LoginPayload struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required,min=6"`
}

// callerFrom returns the authenticated caller of a protected route.
func callerFrom(r *http.Request) (models.Caller, error) {
	caller, ok := auth.CallerFrom(r.Context())
	if !ok {
		return models.Caller{}, apperr.Unauthorized("Unauthorized")
	}
	return caller, nil
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeAndValidate(r, &payload); err != nil {
		RespondError(w, r, err)
		return
	}

	res, err := h.auth.Authenticate(r.Context(), models.Credentials{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		RespondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    res.AccessToken,
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	respondJSON(w, http.StatusOK, res)
}

// Me retrieves the currently authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	user, err := h.users.FindOne(r.Context(), caller.ID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Hello is a minimal protected endpoint confirming the token works.
func (h *AuthHandler) Hello(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Hello World!",
		"user":    caller,
	})
}
