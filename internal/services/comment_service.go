package services

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/store"
	"github.com/isdelr/board-be/internal/websocket"
)

// CommentNotifier pushes comment changes to the live stream of a post.
type CommentNotifier interface {
	Publish(postID int64, action string, payload interface{})
}

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	Create(ctx context.Context, input models.NewComment, callerID int64) (models.Comment, error)
	List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, error)
	FindOne(ctx context.Context, id int64) (models.Comment, error)
	Update(ctx context.Context, id int64, patch models.CommentPatch, callerID int64) (models.Comment, error)
	Remove(ctx context.Context, id, callerID int64) error
}

// CommentService provides business logic for comments and replies.
type CommentService struct {
	comments store.CommentStore
	posts    PostServiceProvider
	events   EventServiceProvider
	notifier CommentNotifier
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments store.CommentStore, posts PostServiceProvider, events EventServiceProvider, notifier CommentNotifier) *CommentService {
	return &CommentService{comments: comments, posts: posts, events: events, notifier: notifier, now: utcNow}
}

// Create adds a comment to a post on behalf of the caller. A reply must point
// at a comment on the same post.
func (s *CommentService) Create(ctx context.Context, input models.NewComment, callerID int64) (models.Comment, error) {
	if _, err := s.posts.FindOne(ctx, input.PostID); err != nil {
		return models.Comment{}, err
	}
	if input.ParentID != nil {
		parent, err := s.comments.FindByID(ctx, *input.ParentID)
		if err != nil {
			return models.Comment{}, lookupErr(err, "Parent comment not found!", "failed to get parent comment")
		}
		if parent.PostID != input.PostID {
			return models.Comment{}, apperr.Invalid("Parent comment belongs to a different post!")
		}
	}

	now := s.now()
	comment := models.Comment{
		Content:   input.Content,
		UserID:    callerID,
		PostID:    input.PostID,
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Insert(ctx, &comment); err != nil {
		return models.Comment{}, apperr.Internal(err, "failed to create comment")
	}

	created, err := s.comments.FindByID(ctx, comment.ID)
	if err != nil {
		return models.Comment{}, lookupErr(err, "Comment not found!", "failed to get comment")
	}

	s.events.Record(ctx, "comment.create", "info", fmt.Sprintf("Comment %d was added.", created.ID), &callerID, &created.PostID)
	s.notifier.Publish(created.PostID, websocket.ActionCommentCreated, created)
	return created, nil
}

// List retrieves the comments matching filter, newest first.
func (s *CommentService) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, error) {
	comments, err := s.comments.FindMany(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list comments")
	}
	return comments, nil
}

// FindOne retrieves a single comment with its author.
func (s *CommentService) FindOne(ctx context.Context, id int64) (models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, lookupErr(err, "Comment not found!", "failed to get comment")
	}
	return comment, nil
}

func (s *CommentService) ownedComment(ctx context.Context, id, callerID int64, verb string) (models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, lookupErr(err, "Comment not found!", "failed to get comment")
	}
	if comment.UserID != callerID {
		return models.Comment{}, apperr.Forbidden(fmt.Sprintf("You can only %s your own comments!", verb))
	}
	return comment, nil
}

// Update changes the content of a comment owned by the caller.
func (s *CommentService) Update(ctx context.Context, id int64, patch models.CommentPatch, callerID int64) (models.Comment, error) {
	comment, err := s.ownedComment(ctx, id, callerID, "update")
	if err != nil {
		return models.Comment{}, err
	}

	if patch.Content != nil {
		comment.Content = *patch.Content
	}
	comment.UpdatedAt = s.now()

	if err := s.comments.Update(ctx, comment); err != nil {
		return models.Comment{}, lookupErr(err, "Comment not found!", "failed to update comment")
	}

	s.events.Record(ctx, "comment.update", "info", fmt.Sprintf("Comment %d was edited.", comment.ID), &callerID, &comment.PostID)
	s.notifier.Publish(comment.PostID, websocket.ActionCommentUpdated, comment)
	return comment, nil
}

// Remove deletes a comment owned by the caller together with its replies.
func (s *CommentService) Remove(ctx context.Context, id, callerID int64) error {
	comment, err := s.ownedComment(ctx, id, callerID, "delete")
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return lookupErr(err, "Comment not found!", "failed to delete comment")
	}

	s.events.Record(ctx, "comment.delete", "warn", fmt.Sprintf("Comment %d was deleted.", comment.ID), &callerID, &comment.PostID)
	s.notifier.Publish(comment.PostID, websocket.ActionCommentDeleted, map[string]int64{
		"id":     comment.ID,
		"postId": comment.PostID,
	})
	return nil
}
