package database

import (
	"context"
	"testing"
	"time"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(username, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Role:      models.RoleUser,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestPost(authorID uuid.UUID, title string, createdAt time.Time) *models.Post {
	return &models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Content:   "some content long enough",
		Slug:      utils.Slugify(title),
		Flags:     []uuid.UUID{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryStoreUserUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	alice := newTestUser("alice", "alice@example.com")
	require.NoError(t, store.SaveUser(ctx, alice))

	// Same username, different account.
	dup := newTestUser("alice", "other@example.com")
	err := store.SaveUser(ctx, dup)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	// Same email, case-insensitive.
	dup = newTestUser("bob", "ALICE@example.com")
	err = store.SaveUser(ctx, dup)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	// Updating the same account is not a conflict.
	alice.ProfilePicture = "avatar.png"
	require.NoError(t, store.SaveUser(ctx, alice))

	got, err := store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "avatar.png", got.ProfilePicture)
}

func TestMemoryStoreUserLookups(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	alice := newTestUser("alice", "alice@example.com")
	require.NoError(t, store.SaveUser(ctx, alice))

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byName, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = store.GetUser(ctx, uuid.New())
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	require.NoError(t, store.DeleteUser(ctx, alice.ID))
	err = store.DeleteUser(ctx, alice.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestMemoryStorePostOrderingAndFlags(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	author := uuid.New()

	base := time.Now()
	older := newTestPost(author, "Older Post", base.Add(-time.Hour))
	newer := newTestPost(author, "Newer Post", base)
	require.NoError(t, store.SavePost(ctx, older))
	require.NoError(t, store.SavePost(ctx, newer))

	posts, err := store.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Newer Post", posts[0].Title)
	assert.Equal(t, "Older Post", posts[1].Title)

	// Duplicate title rejected.
	err = store.SavePost(ctx, newTestPost(author, "Older Post", base))
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	// Only flagged posts show in the flagged list.
	flagged, err := store.GetFlaggedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, flagged)

	older.Flags = append(older.Flags, uuid.New())
	require.NoError(t, store.SavePost(ctx, older))

	flagged, err = store.GetFlaggedPosts(ctx)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, older.ID, flagged[0].ID)
}

func TestMemoryStoreCommentCascade(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	author := uuid.New()

	post := newTestPost(author, "A Post With Comments", time.Now())
	require.NoError(t, store.SavePost(ctx, post))

	for i := 0; i < 3; i++ {
		comment := &models.Comment{
			ID:        uuid.New(),
			PostID:    post.ID,
			AuthorID:  author,
			Content:   "hi there",
			Likes:     []uuid.UUID{},
			Flags:     []uuid.UUID{},
			CreatedAt: time.Now(),
		}
		require.NoError(t, store.SaveComment(ctx, comment))
	}

	comments, err := store.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 3)

	require.NoError(t, store.DeletePostComments(ctx, post.ID))
	comments, err = store.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestMemoryStoreDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	alice := newTestUser("alice", "alice@example.com")
	require.NoError(t, store.SaveUser(ctx, alice))

	got, err := store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	got.Username = "mutated"

	again, err := store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}
