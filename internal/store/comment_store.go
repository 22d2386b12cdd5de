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

// CommentStore persists comments and their reply links.
type CommentStore interface {
	FindByID(ctx context.Context, id int64) (models.Comment, error)
	FindMany(ctx context.Context, filter models.CommentFilter) ([]models.Comment, error)
	Insert(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment models.Comment) error
	Delete(ctx context.Context, id int64) error
}

// SQLCommentStore is the database-backed CommentStore.
type SQLCommentStore struct {
	db *database.DB
}

// NewCommentStore creates a new SQLCommentStore.
func NewCommentStore(db *database.DB) *SQLCommentStore {
	return &SQLCommentStore{db: db}
}

const selectComments = `
	SELECT c.id, c.content, c.user_id, c.post_id, c.parent_id, c.created_at, c.updated_at,
	       u.id, u.username
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func scanComment(row scanner) (models.Comment, error) {
	var comment models.Comment
	var parentID sql.NullInt64
	var author models.Author
	err := row.Scan(
		&comment.ID, &comment.Content, &comment.UserID, &comment.PostID, &parentID, &comment.CreatedAt, &comment.UpdatedAt,
		&author.ID, &author.Username,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, err
	}
	if parentID.Valid {
		id := parentID.Int64
		comment.ParentID = &id
	}
	comment.User = &author
	return comment, nil
}

// FindByID retrieves a single comment and its author.
func (s *SQLCommentStore) FindByID(ctx context.Context, id int64) (models.Comment, error) {
	return scanComment(s.db.QueryRowContext(ctx, s.db.Rebind(selectComments+" WHERE c.id = ?"), id))
}

// FindMany retrieves the comments matching filter, newest first. Replies are
// included; callers group them by ParentID.
func (s *SQLCommentStore) FindMany(ctx context.Context, filter models.CommentFilter) ([]models.Comment, error) {
	var where []string
	var args []interface{}
	if filter.PostID != 0 {
		where = append(where, "c.post_id = ?")
		args = append(args, filter.PostID)
	}
	if filter.UserID != 0 {
		where = append(where, "c.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Search != "" {
		where = append(where, `LOWER(c.content) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Search))
	}

	query := selectComments
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.id ASC"

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Insert stores a new comment and sets its ID.
func (s *SQLCommentStore) Insert(ctx context.Context, comment *models.Comment) error {
	query := s.db.Rebind(`
		INSERT INTO comments (content, user_id, post_id, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err := s.db.QueryRowContext(ctx, query,
		comment.Content, comment.UserID, comment.PostID, nullableID(comment.ParentID), comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// Update writes the content of comment. Post and parent links never change.
func (s *SQLCommentStore) Update(ctx context.Context, comment models.Comment) error {
	query := s.db.Rebind("UPDATE comments SET content = ?, updated_at = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, comment.Content, comment.UpdatedAt, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a comment and its replies.
func (s *SQLCommentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM comments WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return expectAffected(res)
}
