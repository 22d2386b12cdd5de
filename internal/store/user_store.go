package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/board-be/internal/database"
	"github.com/isdelr/board-be/internal/models"
)

// UserStore persists user accounts.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id int64) error
}

// SQLUserStore is the database-backed UserStore.
type SQLUserStore struct {
	db *database.DB
}

// NewUserStore creates a new SQLUserStore.
func NewUserStore(db *database.DB) *SQLUserStore {
	return &SQLUserStore{db: db}
}

const userColumns = "id, username, email, password_hash, created_at, updated_at"

func scanUser(row scanner) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *SQLUserStore) findOne(ctx context.Context, where string, arg interface{}) (models.User, error) {
	query := s.db.Rebind("SELECT " + userColumns + " FROM users WHERE " + where + " = ?")
	return scanUser(s.db.QueryRowContext(ctx, query, arg))
}

// FindByID retrieves a single user by their ID, including the password hash.
func (s *SQLUserStore) FindByID(ctx context.Context, id int64) (models.User, error) {
	return s.findOne(ctx, "id", id)
}

// FindByUsername retrieves a single user by their username.
func (s *SQLUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, "username", username)
}

// FindByEmail retrieves a single user by their email.
func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "email", email)
}

// ExistsByUsernameOrEmail reports whether another user already holds the
// username or the email. excludeID skips the user being updated; pass 0 when
// registering.
func (s *SQLUserStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	query := s.db.Rebind("SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id <> ?")
	var count int
	if err := s.db.QueryRowContext(ctx, query, username, email, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves every user, newest first.
func (s *SQLUserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Insert stores a new user and sets its ID.
func (s *SQLUserStore) Insert(ctx context.Context, user *models.User) error {
	query := s.db.Rebind(`
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := s.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Update writes every mutable column of user.
func (s *SQLUserStore) Update(ctx context.Context, user models.User) error {
	query := s.db.Rebind("UPDATE users SET username = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.UpdatedAt, user.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a user. Their posts and comments go with them.
func (s *SQLUserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
