package store

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/board-be/internal/database"
	"github.com/isdelr/board-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))
	t.Cleanup(func() { db.Close() })
	return db
}

func insertUser(t *testing.T, users *SQLUserStore, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hash",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, users.Insert(context.Background(), &user))
	return user
}

func insertPost(t *testing.T, posts *SQLPostStore, owner int64, title string, community models.Community, at time.Time) models.Post {
	t.Helper()
	post := models.Post{
		Title:     title,
		Content:   "Some content for " + title,
		Community: community,
		UserID:    owner,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, posts.Insert(context.Background(), &post))
	return post
}

func TestUserStore_InsertAndFind(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	alice := insertUser(t, users, "alice")
	assert.NotZero(t, alice.ID)

	byID, err := users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash", byID.PasswordHash)
	assert.True(t, baseTime.Equal(byID.CreatedAt))

	byName, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byEmail, err := users.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = users.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_Uniqueness(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	alice := insertUser(t, users, "alice")
	bob := insertUser(t, users, "bob")

	exists, err := users.ExistsByUsernameOrEmail(ctx, "alice", "other@x.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.ExistsByUsernameOrEmail(ctx, "alice", "alice@x.com", alice.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a user does not conflict with itself")

	dup := models.User{Username: "alice", Email: "new@x.com", PasswordHash: "h", CreatedAt: baseTime, UpdatedAt: baseTime}
	assert.ErrorIs(t, users.Insert(ctx, &dup), ErrConflict)

	bob.Email = "alice@x.com"
	assert.ErrorIs(t, users.Update(ctx, bob), ErrConflict)
}

func TestUserStore_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	alice := insertUser(t, users, "alice")
	post := insertPost(t, posts, alice.ID, "Hello", models.CommunityOthers, baseTime)

	require.NoError(t, users.Delete(ctx, alice.ID))
	_, err := posts.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, alice.ID), ErrNotFound)
}

func TestPostStore_FindManyFiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	alice := insertUser(t, users, "alice")
	bob := insertUser(t, users, "bob")

	first := insertPost(t, posts, alice.ID, "Roman history", models.CommunityHistory, baseTime)
	second := insertPost(t, posts, bob.ID, "Best pasta 100%", models.CommunityFood, baseTime.Add(time.Minute))
	tie := insertPost(t, posts, alice.ID, "Cats", models.CommunityPets, baseTime.Add(time.Minute))

	all, err := posts.FindMany(ctx, models.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{second.ID, tie.ID, first.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	require.NotNil(t, all[0].User)
	assert.Equal(t, "alice", all[0].User.Username)

	search, err := posts.FindMany(ctx, models.PostFilter{Search: "ROMAN"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, first.ID, search[0].ID)

	literal, err := posts.FindMany(ctx, models.PostFilter{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, second.ID, literal[0].ID)

	food, err := posts.FindMany(ctx, models.PostFilter{Community: models.CommunityFood})
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, second.ID, food[0].ID)

	mine, err := posts.FindMany(ctx, models.PostFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestPostStore_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	alice := insertUser(t, users, "alice")
	post := insertPost(t, posts, alice.ID, "Draft", models.CommunityOthers, baseTime)

	post.Title = "Final"
	post.UpdatedAt = baseTime.Add(time.Hour)
	require.NoError(t, posts.Update(ctx, post))

	got, err := posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, alice.ID, got.UserID)

	require.NoError(t, posts.Delete(ctx, post.ID))
	assert.ErrorIs(t, posts.Delete(ctx, post.ID), ErrNotFound)
	assert.ErrorIs(t, posts.Update(ctx, post), ErrNotFound)
}

func TestCommentStore_ThreadingAndCascade(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)
	ctx := context.Background()

	alice := insertUser(t, users, "alice")
	bob := insertUser(t, users, "bob")
	post := insertPost(t, posts, alice.ID, "Hi", models.CommunityOthers, baseTime)

	top := models.Comment{Content: "Nice post", UserID: bob.ID, PostID: post.ID, CreatedAt: baseTime, UpdatedAt: baseTime}
	require.NoError(t, comments.Insert(ctx, &top))
	reply := models.Comment{Content: "Thanks", UserID: alice.ID, PostID: post.ID, ParentID: &top.ID,
		CreatedAt: baseTime.Add(time.Second), UpdatedAt: baseTime.Add(time.Second)}
	require.NoError(t, comments.Insert(ctx, &reply))

	got, err := comments.FindByID(ctx, reply.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, top.ID, *got.ParentID)
	assert.Equal(t, "alice", got.User.Username)

	forPost, err := comments.FindMany(ctx, models.CommentFilter{PostID: post.ID})
	require.NoError(t, err)
	require.Len(t, forPost, 2)
	assert.Equal(t, reply.ID, forPost[0].ID)
	assert.True(t, forPost[1].IsTopLevel())

	// Equal timestamps keep insertion order.
	sibling := models.Comment{Content: "Me too", UserID: alice.ID, PostID: post.ID, ParentID: &top.ID,
		CreatedAt: reply.CreatedAt, UpdatedAt: reply.CreatedAt}
	require.NoError(t, comments.Insert(ctx, &sibling))
	ordered, err := comments.FindMany(ctx, models.CommentFilter{PostID: post.ID})
	require.NoError(t, err)
	require.Len(t, ordered, 3)
	assert.Equal(t, []int64{reply.ID, sibling.ID, top.ID}, []int64{ordered[0].ID, ordered[1].ID, ordered[2].ID})
	require.NoError(t, comments.Delete(ctx, sibling.ID))

	found, err := comments.FindMany(ctx, models.CommentFilter{Search: "thanks"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	// Deleting the parent takes its replies along.
	require.NoError(t, comments.Delete(ctx, top.ID))
	_, err = comments.FindByID(ctx, reply.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	again := models.Comment{Content: "Again", UserID: bob.ID, PostID: post.ID, CreatedAt: baseTime, UpdatedAt: baseTime}
	require.NoError(t, comments.Insert(ctx, &again))
	require.NoError(t, posts.Delete(ctx, post.ID))
	_, err = comments.FindByID(ctx, again.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventStore_RecentAndPrune(t *testing.T) {
	db := newTestDB(t)
	events := NewEventStore(db)
	ctx := context.Background()

	postID := int64(7)
	for i, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, events.Insert(ctx, models.Event{
			ID:        id,
			Type:      "post.create",
			Level:     "info",
			Message:   "created",
			PostID:    &postID,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Hour),
		}))
	}

	recent, err := events.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "e3", recent[0].ID)
	assert.Nil(t, recent[0].UserID)
	require.NotNil(t, recent[0].PostID)
	assert.Equal(t, postID, *recent[0].PostID)

	pruned, err := events.DeleteBefore(ctx, baseTime.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)

	left, err := events.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "e3", left[0].ID)

	// Events recorded at the same instant come back in a stable order.
	for _, id := range []string{"e5", "e4"} {
		require.NoError(t, events.Insert(ctx, models.Event{
			ID: id, Type: "post.create", Level: "info", Message: "created",
			CreatedAt: baseTime.Add(5 * time.Hour),
		}))
	}
	tied, err := events.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tied, 2)
	assert.Equal(t, []string{"e4", "e5"}, []string{tied[0].ID, tied[1].ID})
}
