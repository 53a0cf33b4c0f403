package actors

import (
	stdctx "context"
	"log/slog"
	"strings"
	"time"

	"bayou-blog/internal/audit"
	"bayou-blog/internal/database"
	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

type (
	CreatePostMsg struct {
		Principal models.Principal
		Title     string
		Content   string
		Image     string
		Category  string
	}

	GetPostMsg struct {
		PostID uuid.UUID
	}

	ListPostsMsg struct{}

	UpdatePostMsg struct {
		Principal models.Principal
		PostID    uuid.UUID
		Title     string
		Content   string
		Image     string
		Category  string
		Slug      string
	}

	DeletePostMsg struct {
		Principal models.Principal
		PostID    uuid.UUID
	}

	FlagPostMsg struct {
		Principal models.Principal
		PostID    uuid.UUID
	}

	UnflagPostMsg struct {
		Principal models.Principal
		PostID    uuid.UUID
	}

	GetFlaggedPostsMsg struct{}
)

// PostActor owns post lifecycle and post moderation state.
type PostActor struct {
	db      database.Store
	auditor *audit.Recorder
	metrics *utils.MetricsCollector
}

func NewPostActor(db database.Store, auditor *audit.Recorder, metrics *utils.MetricsCollector) actor.Actor {
	return &PostActor{db: db, auditor: auditor, metrics: metrics}
}

func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("PostActor started")
	case *CreatePostMsg:
		a.handleCreate(context, msg)
	case *GetPostMsg:
		a.handleGet(context, msg)
	case *ListPostsMsg:
		a.handleList(context)
	case *UpdatePostMsg:
		a.handleUpdate(context, msg)
	case *DeletePostMsg:
		a.handleDelete(context, msg)
	case *FlagPostMsg:
		a.handleFlag(context, msg)
	case *UnflagPostMsg:
		a.handleUnflag(context, msg)
	case *GetFlaggedPostsMsg:
		a.handleFlagged(context)
	}
}

// populateAuthor fills the display fields from the owning user, substituting
// the deleted-author sentinel when the owner no longer exists.
func (a *PostActor) populateAuthor(ctx stdctx.Context, post *models.Post) {
	user, err := a.db.GetUser(ctx, post.AuthorID)
	if err != nil {
		post.AuthorUsername = models.DeletedAuthorName
		post.AuthorEmail = ""
		return
	}
	post.AuthorUsername = user.Username
	post.AuthorEmail = user.Email
}

func (a *PostActor) handleCreate(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	title := strings.TrimSpace(msg.Title)
	content := strings.TrimSpace(msg.Content)
	switch {
	case title == "" || content == "":
		context.Respond(utils.NewValidationError("Title and content are required"))
		return
	case len(title) < 5:
		context.Respond(utils.NewValidationError("Title must be at least 5 characters"))
		return
	case len(content) < 10:
		context.Respond(utils.NewValidationError("Content must be at least 10 characters"))
		return
	}

	if _, err := a.db.GetPostByTitle(ctx, title); err == nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "A post with this title already exists", nil))
		return
	}

	category := strings.TrimSpace(msg.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	now := time.Now()
	post := &models.Post{
		ID:        uuid.New(),
		AuthorID:  msg.Principal.ID,
		Title:     title,
		Content:   content,
		Image:     strings.TrimSpace(msg.Image),
		Category:  category,
		Slug:      utils.Slugify(title),
		Flags:     []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.db.SavePost(ctx, post); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(err)
			return
		}
		slog.Error("failed to save post", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save post", err))
		return
	}

	a.populateAuthor(ctx, post)
	a.auditor.Record(audit.ActionPostCreate, msg.Principal.ID, post.ID, map[string]string{"title": post.Title})
	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleGet(context actor.Context, msg *GetPostMsg) {
	ctx := stdctx.Background()
	post, err := a.db.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}
	a.populateAuthor(ctx, post)
	context.Respond(post)
}

func (a *PostActor) handleList(context actor.Context) {
	ctx := stdctx.Background()
	posts, err := a.db.GetAllPosts(ctx)
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch posts", err))
		return
	}
	for _, post := range posts {
		a.populateAuthor(ctx, post)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	context.Respond(posts)
}

func (a *PostActor) handleUpdate(context actor.Context, msg *UpdatePostMsg) {
	ctx := stdctx.Background()

	post, err := a.db.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	if !msg.Principal.CanModify(post.AuthorID) {
		context.Respond(utils.NewForbiddenError("you may only edit your own posts"))
		return
	}

	if title := strings.TrimSpace(msg.Title); title != "" && title != post.Title {
		if len(title) < 5 {
			context.Respond(utils.NewValidationError("Title must be at least 5 characters"))
			return
		}
		if _, err := a.db.GetPostByTitle(ctx, title); err == nil {
			context.Respond(utils.NewAppError(utils.ErrDuplicate, "A post with this title already exists", nil))
			return
		}
		post.Title = title
		post.Slug = utils.Slugify(title)
	}
	if content := strings.TrimSpace(msg.Content); content != "" {
		if len(content) < 10 {
			context.Respond(utils.NewValidationError("Content must be at least 10 characters"))
			return
		}
		post.Content = content
	}
	if image := strings.TrimSpace(msg.Image); image != "" {
		post.Image = image
	}
	if category := strings.TrimSpace(msg.Category); category != "" {
		post.Category = category
	}

	// An explicit slug wins over the one derived from a title change. The
	// store's unique index rejects a slug already taken by another post.
	if strings.TrimSpace(msg.Slug) != "" {
		slug := utils.Slugify(msg.Slug)
		if slug == "" {
			context.Respond(utils.NewValidationError("Slug must contain letters or digits"))
			return
		}
		post.Slug = slug
	}

	post.UpdatedAt = time.Now()
	if err := a.db.SavePost(ctx, post); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(err)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update post", err))
		return
	}

	a.populateAuthor(ctx, post)
	context.Respond(post)
}

func (a *PostActor) handleDelete(context actor.Context, msg *DeletePostMsg) {
	ctx := stdctx.Background()

	post, err := a.db.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	if !msg.Principal.CanModify(post.AuthorID) {
		context.Respond(utils.NewForbiddenError("you may only delete your own posts"))
		return
	}

	if err := a.db.DeletePost(ctx, msg.PostID); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete post", err))
		return
	}

	// Comments do not outlive their post.
	if err := a.db.DeletePostComments(ctx, msg.PostID); err != nil {
		slog.Error("failed to delete post comments", "postId", msg.PostID, "error", err)
	}

	a.auditor.Record(audit.ActionPostDelete, msg.Principal.ID, msg.PostID, map[string]string{"title": post.Title})
	context.Respond(true)
}

func (a *PostActor) handleFlag(context actor.Context, msg *FlagPostMsg) {
	ctx := stdctx.Background()

	post, err := a.db.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	if post.FlaggedBy(msg.Principal.ID) {
		context.Respond(utils.NewAppError(utils.ErrAlreadyFlagged, "You have already flagged this post", nil))
		return
	}

	post.Flags = append(post.Flags, msg.Principal.ID)
	post.UpdatedAt = time.Now()
	if err := a.db.SavePost(ctx, post); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to flag post", err))
		return
	}

	a.populateAuthor(ctx, post)
	context.Respond(post)
}

func (a *PostActor) handleUnflag(context actor.Context, msg *UnflagPostMsg) {
	ctx := stdctx.Background()

	post, err := a.db.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	// Removing an absent flag is a no-op, not an error.
	post.RemoveFlag(msg.Principal.ID)
	post.UpdatedAt = time.Now()
	if err := a.db.SavePost(ctx, post); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to unflag post", err))
		return
	}

	a.populateAuthor(ctx, post)
	context.Respond(post)
}

func (a *PostActor) handleFlagged(context actor.Context) {
	ctx := stdctx.Background()
	posts, err := a.db.GetFlaggedPosts(ctx)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch flagged posts", err))
		return
	}
	for _, post := range posts {
		a.populateAuthor(ctx, post)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	context.Respond(posts)
}
