package services

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/models"
	"github.com/isdelr/board-be/internal/store"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	Create(ctx context.Context, input models.NewPost, callerID int64) (models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	FindOne(ctx context.Context, id int64) (models.PostDetail, error)
	Update(ctx context.Context, id int64, patch models.PostPatch, callerID int64) (models.Post, error)
	Remove(ctx context.Context, id, callerID int64) error
}

// PostService provides business logic for posts and assembles their comment
// trees.
type PostService struct {
	posts    store.PostStore
	comments store.CommentStore
	events   EventServiceProvider
	now      func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(posts store.PostStore, comments store.CommentStore, events EventServiceProvider) *PostService {
	return &PostService{posts: posts, comments: comments, events: events, now: utcNow}
}

// Create publishes a post owned by the caller.
func (s *PostService) Create(ctx context.Context, input models.NewPost, callerID int64) (models.Post, error) {
	if input.Community == "" {
		input.Community = models.CommunityOthers
	}
	if !input.Community.Valid() {
		return models.Post{}, apperr.Invalid(fmt.Sprintf("community must be one of %v", models.Communities))
	}

	now := s.now()
	post := models.Post{
		Title:     input.Title,
		Content:   input.Content,
		Community: input.Community,
		UserID:    callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Insert(ctx, &post); err != nil {
		return models.Post{}, apperr.Internal(err, "failed to create post")
	}

	s.events.Record(ctx, "post.create", "info", fmt.Sprintf("Post '%s' was created.", post.Title), &callerID, &post.ID)

	created, err := s.posts.FindByID(ctx, post.ID)
	if err != nil {
		return models.Post{}, lookupErr(err, "Post not found!", "failed to get post")
	}
	return created, nil
}

// List retrieves the posts matching filter, newest first.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	if filter.Community != "" && !filter.Community.Valid() {
		return nil, apperr.Invalid(fmt.Sprintf("community must be one of %v", models.Communities))
	}
	posts, err := s.posts.FindMany(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list posts")
	}
	return posts, nil
}

// FindOne retrieves a post with its owner and its two-level comment tree.
func (s *PostService) FindOne(ctx context.Context, id int64) (models.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return models.PostDetail{}, lookupErr(err, "Post not found!", "failed to get post")
	}

	comments, err := s.comments.FindMany(ctx, models.CommentFilter{PostID: id})
	if err != nil {
		return models.PostDetail{}, apperr.Internal(err, "failed to load comments")
	}
	return models.PostDetail{Post: post, Comments: buildThreads(comments)}, nil
}

// buildThreads groups comments, already ordered newest first, into top-level
// threads with their direct replies. Replies nested deeper are left out.
func buildThreads(comments []models.Comment) []*models.CommentThread {
	threads := []*models.CommentThread{}
	byID := make(map[int64]*models.CommentThread)
	for i := range comments {
		c := &comments[i]
		if !c.IsTopLevel() {
			continue
		}
		thread := &models.CommentThread{Comment: c, Children: []*models.Comment{}}
		threads = append(threads, thread)
		byID[c.ID] = thread
	}
	for i := range comments {
		c := &comments[i]
		if c.IsTopLevel() {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		}
	}
	return threads
}

// ownedPost loads a post and checks that callerID owns it. verb names the
// attempted action in the Forbidden message.
func (s *PostService) ownedPost(ctx context.Context, id, callerID int64, verb string) (models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return models.Post{}, lookupErr(err, "Post not found!", "failed to get post")
	}
	if post.UserID != callerID {
		return models.Post{}, apperr.Forbidden(fmt.Sprintf("You can only %s your own posts!", verb))
	}
	return post, nil
}

// Update applies patch to a post owned by the caller.
func (s *PostService) Update(ctx context.Context, id int64, patch models.PostPatch, callerID int64) (models.Post, error) {
	post, err := s.ownedPost(ctx, id, callerID, "update")
	if err != nil {
		return models.Post{}, err
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Community != nil {
		if !patch.Community.Valid() {
			return models.Post{}, apperr.Invalid(fmt.Sprintf("community must be one of %v", models.Communities))
		}
		post.Community = *patch.Community
	}
	post.UpdatedAt = s.now()

	if err := s.posts.Update(ctx, post); err != nil {
		return models.Post{}, lookupErr(err, "Post not found!", "failed to update post")
	}

	s.events.Record(ctx, "post.update", "info", fmt.Sprintf("Post '%s' was updated.", post.Title), &callerID, &post.ID)
	return post, nil
}

// Remove deletes a post owned by the caller together with its comments.
func (s *PostService) Remove(ctx context.Context, id, callerID int64) error {
	post, err := s.ownedPost(ctx, id, callerID, "delete")
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return lookupErr(err, "Post not found!", "failed to delete post")
	}

	s.events.Record(ctx, "post.delete", "warn", fmt.Sprintf("Post '%s' was deleted.", post.Title), &callerID, &post.ID)
	return nil
}
