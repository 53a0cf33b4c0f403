package actors

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bayou-blog/internal/audit"
	"bayou-blog/internal/database"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentActorFixture(t *testing.T) (*actor.ActorSystem, *actor.PID, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	recorder := audit.NewRecorder(filepath.Join(t.TempDir(), "audit.log"))
	metrics := utils.NewMetricsCollector()

	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(store, recorder, metrics)
	})
	return system, system.Root.Spawn(props), store
}

func seedPost(t *testing.T, store *database.MemoryStore, authorID uuid.UUID) *models.Post {
	t.Helper()
	now := time.Now()
	post := &models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     "Seed Post " + uuid.NewString()[:8],
		Content:   "seeded content for comment tests",
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.Slug = utils.Slugify(post.Title)
	require.NoError(t, store.SavePost(context.Background(), post))
	return post
}

func TestCommentActorCreateAndValidation(t *testing.T) {
	system, pid, store := newCommentActorFixture(t)
	authorID := uuid.New()
	post := seedPost(t, store, authorID)
	principal := models.Principal{ID: authorID, Role: models.RoleUser}

	// Too short.
	result := askT(t, system, pid, &CreateCommentMsg{Principal: principal, PostID: post.ID, Content: "x"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Too long.
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	result = askT(t, system, pid, &CreateCommentMsg{Principal: principal, PostID: post.ID, Content: string(long)})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Unknown post.
	result = askT(t, system, pid, &CreateCommentMsg{Principal: principal, PostID: uuid.New(), Content: "hello there"})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// Valid comment.
	result = askT(t, system, pid, &CreateCommentMsg{Principal: principal, PostID: post.ID, Content: "Nice post!"})
	comment, ok := result.(*models.Comment)
	require.True(t, ok, "expected *models.Comment, got %T: %v", result, result)
	assert.Equal(t, "Nice post!", comment.Content)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Zero(t, comment.NumberOfLikes)

	// Listed under the post.
	result = askT(t, system, pid, &GetPostCommentsMsg{PostID: post.ID})
	comments := result.([]*models.Comment)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}

func TestCommentActorEditAndDeletePolicy(t *testing.T) {
	system, pid, store := newCommentActorFixture(t)
	authorID := uuid.New()
	post := seedPost(t, store, authorID)

	owner := models.Principal{ID: authorID, Role: models.RoleUser}
	other := models.Principal{ID: uuid.New(), Role: models.RoleUser}
	admin := models.Principal{ID: uuid.New(), Role: models.RoleAdmin}

	result := askT(t, system, pid, &CreateCommentMsg{Principal: owner, PostID: post.ID, Content: "original text"})
	comment := result.(*models.Comment)

	// Stranger cannot edit.
	result = askT(t, system, pid, &EditCommentMsg{Principal: other, CommentID: comment.ID, Content: "hijack"})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Owner edits.
	result = askT(t, system, pid, &EditCommentMsg{Principal: owner, CommentID: comment.ID, Content: "edited text"})
	edited := result.(*models.Comment)
	assert.Equal(t, "edited text", edited.Content)

	// Stranger cannot delete, admin can.
	result = askT(t, system, pid, &DeleteCommentMsg{Principal: other, CommentID: comment.ID})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = askT(t, system, pid, &DeleteCommentMsg{Principal: admin, CommentID: comment.ID})
	assert.Equal(t, true, result)

	result = askT(t, system, pid, &GetCommentMsg{CommentID: comment.ID})
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestCommentActorToggleLike(t *testing.T) {
	system, pid, store := newCommentActorFixture(t)
	authorID := uuid.New()
	post := seedPost(t, store, authorID)

	author := models.Principal{ID: authorID, Role: models.RoleUser}
	liker := models.Principal{ID: uuid.New(), Role: models.RoleUser}

	result := askT(t, system, pid, &CreateCommentMsg{Principal: author, PostID: post.ID, Content: "like me"})
	comment := result.(*models.Comment)

	// Like.
	result = askT(t, system, pid, &ToggleLikeMsg{Principal: liker, CommentID: comment.ID})
	liked := result.(*models.Comment)
	assert.Equal(t, 1, liked.NumberOfLikes)
	assert.Contains(t, liked.Likes, liker.ID)

	// Second liker.
	result = askT(t, system, pid, &ToggleLikeMsg{Principal: author, CommentID: comment.ID})
	liked = result.(*models.Comment)
	assert.Equal(t, 2, liked.NumberOfLikes)

	// Toggle off.
	result = askT(t, system, pid, &ToggleLikeMsg{Principal: liker, CommentID: comment.ID})
	unliked := result.(*models.Comment)
	assert.Equal(t, 1, unliked.NumberOfLikes)
	assert.NotContains(t, unliked.Likes, liker.ID)
}

func TestCommentActorFlagging(t *testing.T) {
	system, pid, store := newCommentActorFixture(t)
	authorID := uuid.New()
	post := seedPost(t, store, authorID)

	author := models.Principal{ID: authorID, Role: models.RoleUser}
	flagger := models.Principal{ID: uuid.New(), Role: models.RoleUser}

	result := askT(t, system, pid, &CreateCommentMsg{Principal: author, PostID: post.ID, Content: "flag me"})
	comment := result.(*models.Comment)

	result = askT(t, system, pid, &FlagCommentMsg{Principal: flagger, CommentID: comment.ID})
	flagged := result.(*models.Comment)
	assert.Len(t, flagged.Flags, 1)

	// Double flag rejected.
	result = askT(t, system, pid, &FlagCommentMsg{Principal: flagger, CommentID: comment.ID})
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrAlreadyFlagged, appErr.Code)

	result = askT(t, system, pid, &GetFlaggedCommentsMsg{})
	list := result.([]*models.Comment)
	require.Len(t, list, 1)

	// Unflag is always a no-op removal.
	result = askT(t, system, pid, &UnflagCommentMsg{Principal: flagger, CommentID: comment.ID})
	clean := result.(*models.Comment)
	assert.Empty(t, clean.Flags)

	result = askT(t, system, pid, &GetFlaggedCommentsMsg{})
	list = result.([]*models.Comment)
	assert.Empty(t, list)
}
