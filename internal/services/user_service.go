package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/store"
)

const duplicateUserMsg = "Email or username already exists!"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	FindOne(ctx context.Context, id int64) (models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch, callerID int64) (models.User, error)
	Remove(ctx context.Context, id, callerID int64) error
}

// UserService provides business logic for user management.
type UserService struct {
	users  store.UserStore
	events EventServiceProvider
	now    func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, events EventServiceProvider) *UserService {
	return &UserService{users: users, events: events, now: utcNow}
}

// Register creates a new user, hashing their password. The returned user
// carries no password hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email, 0)
	if err != nil {
		return models.User{}, apperr.Internal(err, "failed to check existing users")
	}
	if exists {
		return models.User{}, apperr.Conflict(duplicateUserMsg)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := s.now()
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return models.User{}, apperr.Conflict(duplicateUserMsg)
		}
		return models.User{}, apperr.Internal(err, "failed to create user")
	}

	s.events.Record(ctx, "user.register", "info", fmt.Sprintf("User '%s' registered.", user.Username), &user.ID, nil)
	user.PasswordHash = ""
	return user, nil
}

// List retrieves every user without password hashes.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list users")
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// FindOne retrieves a single user by ID.
func (s *UserService) FindOne(ctx context.Context, id int64) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, lookupErr(err, "User not found!", "failed to get user")
	}
	user.PasswordHash = ""
	return user, nil
}

// Update applies patch to the caller's own account. A new password is hashed
// before it is stored.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch, callerID int64) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, lookupErr(err, "User not found!", "failed to get user")
	}
	if user.ID != callerID {
		return models.User{}, apperr.Forbidden("You can only update your own profile!")
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Username != nil || patch.Email != nil {
		exists, err := s.users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email, user.ID)
		if err != nil {
			return models.User{}, apperr.Internal(err, "failed to check existing users")
		}
		if exists {
			return models.User{}, apperr.Conflict(duplicateUserMsg)
		}
	}
	if patch.Password != nil {
		if user.PasswordHash, err = hashPassword(*patch.Password); err != nil {
			return models.User{}, err
		}
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return models.User{}, apperr.Conflict(duplicateUserMsg)
		case errors.Is(err, store.ErrNotFound):
			return models.User{}, apperr.NotFound("User not found!")
		}
		return models.User{}, apperr.Internal(err, "failed to update user")
	}

	s.events.Record(ctx, "user.update", "info", fmt.Sprintf("User '%s' updated their profile.", user.Username), &user.ID, nil)
	user.PasswordHash = ""
	return user, nil
}

// Remove permanently deletes the caller's own account, together with their
// posts and comments.
func (s *UserService) Remove(ctx context.Context, id, callerID int64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "User not found!", "failed to get user")
	}
	if user.ID != callerID {
		return apperr.Forbidden("You can only delete your own profile!")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return lookupErr(err, "User not found!", "failed to delete user")
	}

	s.events.Record(ctx, "user.delete", "warn", fmt.Sprintf("User '%s' deleted their account.", user.Username), nil, nil)
	return nil
}
