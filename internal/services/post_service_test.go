package services

import (
	"context"
	"testing"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, f *fixture, username string) models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), username, username+"@x.com", "secret1")
	require.NoError(t, err)
	return user
}

func TestPostService_CreateAndFindOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := register(t, f, "alice")

	post, err := f.posts.Create(ctx, models.NewPost{Title: "Hi", Content: "First post content"}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommunityOthers, post.Community)
	assert.Equal(t, alice.ID, post.UserID)
	require.NotNil(t, post.User)
	assert.Equal(t, alice.Summary(), *post.User)

	detail, err := f.posts.FindOne(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", detail.Title)
	assert.Empty(t, detail.Comments)

	again, err := f.posts.FindOne(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, detail, again)

	_, err = f.posts.FindOne(ctx, post.ID+1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Post not found!", err.Error())
}

func TestPostService_CreateRejectsUnknownCommunity(t *testing.T) {
	f := newFixture(t)
	alice := register(t, f, "alice")

	_, err := f.posts.Create(context.Background(), models.NewPost{Title: "Hi", Content: "Some content", Community: "sports"}, alice.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
}

func TestPostService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := register(t, f, "alice")
	bob := register(t, f, "bob")

	history, err := f.posts.Create(ctx, models.NewPost{Title: "Rome", Content: "Ancient empire", Community: models.CommunityHistory}, alice.ID)
	require.NoError(t, err)
	food, err := f.posts.Create(ctx, models.NewPost{Title: "Pasta", Content: "A recipe from Rome", Community: models.CommunityFood}, bob.ID)
	require.NoError(t, err)

	all, err := f.posts.List(ctx, models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, food.ID, all[0].ID, "newest first")

	rome, err := f.posts.List(ctx, models.PostFilter{Search: "rome"})
	require.NoError(t, err)
	assert.Len(t, rome, 2, "search matches title or content")

	onlyHistory, err := f.posts.List(ctx, models.PostFilter{Community: models.CommunityHistory})
	require.NoError(t, err)
	require.Len(t, onlyHistory, 1)
	assert.Equal(t, history.ID, onlyHistory[0].ID)

	mine, err := f.posts.List(ctx, models.PostFilter{UserID: bob.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, food.ID, mine[0].ID)

	_, err = f.posts.List(ctx, models.PostFilter{Community: "sports"})
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
}

func TestPostService_OwnerChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := register(t, f, "alice")
	bob := register(t, f, "bob")

	post, err := f.posts.Create(ctx, models.NewPost{Title: "Hi", Content: "First post content"}, alice.ID)
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, post.ID, models.PostPatch{Title: strPtr("Hacked")}, bob.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "You can only update your own posts!", err.Error())

	err = f.posts.Remove(ctx, post.ID, bob.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, "You can only delete your own posts!", err.Error())

	unchanged, err := f.posts.FindOne(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", unchanged.Title)

	_, err = f.posts.Update(ctx, post.ID+1, models.PostPatch{}, alice.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPostService_UpdateAppliesPresentFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := register(t, f, "alice")

	post, err := f.posts.Create(ctx, models.NewPost{Title: "Hi", Content: "First post content"}, alice.ID)
	require.NoError(t, err)

	pets := models.CommunityPets
	updated, err := f.posts.Update(ctx, post.ID, models.PostPatch{Title: strPtr("Hello"), Community: &pets}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "First post content", updated.Content)
	assert.Equal(t, models.CommunityPets, updated.Community)
	assert.True(t, updated.UpdatedAt.After(post.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(post.CreatedAt))

	bad := models.Community("sports")
	_, err = f.posts.Update(ctx, post.ID, models.PostPatch{Community: &bad}, alice.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
}

func TestPostService_RemoveDeletesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := register(t, f, "alice")
	bob := register(t, f, "bob")

	post, err := f.posts.Create(ctx, models.NewPost{Title: "Hi", Content: "First post content"}, alice.ID)
	require.NoError(t, err)
	comment, err := f.comments.Create(ctx, models.NewComment{Content: "Nice", PostID: post.ID}, bob.ID)
	require.NoError(t, err)

	require.NoError(t, f.posts.Remove(ctx, post.ID, alice.ID))

	_, err = f.posts.FindOne(ctx, post.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.comments.FindOne(ctx, comment.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestBuildThreads(t *testing.T) {
	id := func(v int64) *int64 { return &v }
	// Newest first, as the store returns them.
	comments := []models.Comment{
		{ID: 5, ParentID: id(1)},
		{ID: 4, ParentID: id(2)},
		{ID: 3},
		{ID: 2, ParentID: id(1)},
		{ID: 1},
	}

	threads := buildThreads(comments)
	require.Len(t, threads, 2)
	assert.Equal(t, int64(3), threads[0].ID)
	assert.Empty(t, threads[0].Children)
	assert.NotNil(t, threads[0].Children)

	assert.Equal(t, int64(1), threads[1].ID)
	require.Len(t, threads[1].Children, 2)
	assert.Equal(t, int64(5), threads[1].Children[0].ID)
	assert.Equal(t, int64(2), threads[1].Children[1].ID)
}
