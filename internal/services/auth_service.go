package services

import (
	"context"
	"errors"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/auth"
	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Authenticate(ctx context.Context, creds models.Credentials) (models.AuthResponse, error)
	ResolveSession(ctx context.Context, token string) (models.Caller, error)
}

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	users  store.UserStore
	tokens *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Authenticate verifies a user's credentials and issues a token for them.
func (s *AuthService) Authenticate(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	var (
		user models.User
		err  error
	)
	switch {
	case creds.Username != "":
		user, err = s.users.FindByUsername(ctx, creds.Username)
	case creds.Email != "":
		user, err = s.users.FindByEmail(ctx, creds.Email)
	default:
		return models.AuthResponse{}, apperr.Invalid("Username or email is required")
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn().Str("username", creds.Username).Str("email", creds.Email).Msg("Login attempt for unknown user")
		}
		return models.AuthResponse{}, lookupErr(err, "User not found!", "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.AuthResponse{}, apperr.Internal(err, "failed to compare password hash")
		}
		log.Warn().Int64("user_id", user.ID).Msg("Failed authentication attempt")
		return models.AuthResponse{}, apperr.Unauthorized("Invalid password!")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return models.AuthResponse{}, apperr.Internal(err, "failed to generate token")
	}
	return models.AuthResponse{AccessToken: token, User: user.Summary()}, nil
}

// ResolveSession verifies a token and returns the user it was issued to. A
// token for a user that no longer exists is rejected.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (models.Caller, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Caller{}, apperr.Unauthorized("Invalid or expired token")
	}

	user, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Caller{}, apperr.Unauthorized("User no longer exists")
		}
		return models.Caller{}, apperr.Internal(err, "failed to resolve session")
	}
	// A recreated account with the same username must not inherit old tokens.
	if id, err := claims.UserID(); err != nil || id != user.ID {
		return models.Caller{}, apperr.Unauthorized("User no longer exists")
	}
	return models.Caller{ID: user.ID, Username: user.Username}, nil
}
