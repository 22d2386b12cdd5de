package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/board-be/internal/database"
	"github.com/isdelr/board-be/internal/models"
)

// PostStore persists posts.
type PostStore interface {
	FindByID(ctx context.Context, id int64) (models.Post, error)
	FindMany(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post models.Post) error
	Delete(ctx context.Context, id int64) error
}

// SQLPostStore is the database-backed PostStore.
type SQLPostStore struct {
	db *database.DB
}

// NewPostStore creates a new SQLPostStore.
func NewPostStore(db *database.DB) *SQLPostStore {
	return &SQLPostStore{db: db}
}

const selectPosts = `
	SELECT p.id, p.title, p.content, p.community, p.user_id, p.created_at, p.updated_at,
	       u.id, u.username, u.email
	FROM posts p
	JOIN users u ON u.id = p.user_id`

// scanPost scans a post row joined with its owner.
func scanPost(row scanner) (models.Post, error) {
	var post models.Post
	var community string
	var owner models.UserSummary
	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &community, &post.UserID, &post.CreatedAt, &post.UpdatedAt,
		&owner.ID, &owner.Username, &owner.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	post.Community = models.Community(community)
	post.User = &owner
	return post, nil
}

// FindByID retrieves a single post and its owner.
func (s *SQLPostStore) FindByID(ctx context.Context, id int64) (models.Post, error) {
	return scanPost(s.db.QueryRowContext(ctx, s.db.Rebind(selectPosts+" WHERE p.id = ?"), id))
}

// FindMany retrieves the posts matching filter, newest first.
func (s *SQLPostStore) FindMany(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	var where []string
	var args []interface{}
	if filter.Search != "" {
		where = append(where, `(LOWER(p.title) LIKE ? ESCAPE '\' OR LOWER(p.content) LIKE ? ESCAPE '\')`)
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}
	if filter.Community != "" {
		where = append(where, "p.community = ?")
		args = append(args, string(filter.Community))
	}
	if filter.UserID != 0 {
		where = append(where, "p.user_id = ?")
		args = append(args, filter.UserID)
	}

	query := selectPosts
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id ASC"

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Insert stores a new post and sets its ID.
func (s *SQLPostStore) Insert(ctx context.Context, post *models.Post) error {
	query := s.db.Rebind(`
		INSERT INTO posts (title, content, community, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := s.db.QueryRowContext(ctx, query,
		post.Title, post.Content, string(post.Community), post.UserID, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// Update writes the mutable columns of post. The owner is never rewritten.
func (s *SQLPostStore) Update(ctx context.Context, post models.Post) error {
	query := s.db.Rebind("UPDATE posts SET title = ?, content = ?, community = ?, updated_at = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, post.Title, post.Content, string(post.Community), post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a post and, through the foreign key, its comments.
func (s *SQLPostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM posts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return expectAffected(res)
}
