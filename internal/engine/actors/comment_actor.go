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

const (
	minCommentLength = 2
	maxCommentLength = 500
)

type (
	CreateCommentMsg struct {
		Principal models.Principal
		PostID    uuid.UUID
		Content   string
	}

	GetCommentMsg struct {
		CommentID uuid.UUID
	}

	GetPostCommentsMsg struct {
		PostID uuid.UUID
	}

	EditCommentMsg struct {
		Principal models.Principal
		CommentID uuid.UUID
		Content   string
	}

	DeleteCommentMsg struct {
		Principal models.Principal
		CommentID uuid.UUID
	}

	ToggleLikeMsg struct {
		Principal models.Principal
		CommentID uuid.UUID
	}

	FlagCommentMsg struct {
		Principal models.Principal
		CommentID uuid.UUID
	}

	UnflagCommentMsg struct {
		Principal models.Principal
		CommentID uuid.UUID
	}

	GetFlaggedCommentsMsg struct{}
)

// CommentActor owns comment lifecycle, like toggles and comment moderation.
type CommentActor struct {
	db      database.Store
	auditor *audit.Recorder
	metrics *utils.MetricsCollector
}

func NewCommentActor(db database.Store, auditor *audit.Recorder, metrics *utils.MetricsCollector) actor.Actor {
	return &CommentActor{db: db, auditor: auditor, metrics: metrics}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("CommentActor started")
	case *CreateCommentMsg:
		a.handleCreate(context, msg)
	case *GetCommentMsg:
		a.handleGet(context, msg)
	case *GetPostCommentsMsg:
		a.handleGetPostComments(context, msg)
	case *EditCommentMsg:
		a.handleEdit(context, msg)
	case *DeleteCommentMsg:
		a.handleDelete(context, msg)
	case *ToggleLikeMsg:
		a.handleToggleLike(context, msg)
	case *FlagCommentMsg:
		a.handleFlag(context, msg)
	case *UnflagCommentMsg:
		a.handleUnflag(context, msg)
	case *GetFlaggedCommentsMsg:
		a.handleFlagged(context)
	}
}

func validateCommentContent(content string) *utils.AppError {
	if len(content) < minCommentLength {
		return utils.NewValidationError("Comment must be at least 2 characters")
	}
	if len(content) > maxCommentLength {
		return utils.NewValidationError("Comment must be at most 500 characters")
	}
	return nil
}

func (a *CommentActor) populateAuthor(ctx stdctx.Context, comment *models.Comment) {
	user, err := a.db.GetUser(ctx, comment.AuthorID)
	if err != nil {
		comment.AuthorUsername = models.DeletedAuthorName
		return
	}
	comment.AuthorUsername = user.Username
}

func (a *CommentActor) handleCreate(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	content := strings.TrimSpace(msg.Content)
	if appErr := validateCommentContent(content); appErr != nil {
		context.Respond(appErr)
		return
	}

	if _, err := a.db.GetPost(ctx, msg.PostID); err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New(),
		PostID:    msg.PostID,
		AuthorID:  msg.Principal.ID,
		Content:   content,
		Likes:     []uuid.UUID{},
		Flags:     []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.db.SaveComment(ctx, comment); err != nil {
		slog.Error("failed to save comment", "error", err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save comment", err))
		return
	}

	a.populateAuthor(ctx, comment)
	a.auditor.Record(audit.ActionCommentCreate, msg.Principal.ID, comment.ID,
		map[string]string{"postId": msg.PostID.String()})
	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(comment)
}

func (a *CommentActor) handleGet(context actor.Context, msg *GetCommentMsg) {
	ctx := stdctx.Background()
	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}
	a.populateAuthor(ctx, comment)
	context.Respond(comment)
}

func (a *CommentActor) handleGetPostComments(context actor.Context, msg *GetPostCommentsMsg) {
	ctx := stdctx.Background()

	if _, err := a.db.GetPost(ctx, msg.PostID); err != nil {
		context.Respond(utils.NewNotFoundError("Post"))
		return
	}

	comments, err := a.db.GetPostComments(ctx, msg.PostID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch comments", err))
		return
	}
	for _, comment := range comments {
		a.populateAuthor(ctx, comment)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	context.Respond(comments)
}

func (a *CommentActor) handleEdit(context actor.Context, msg *EditCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}

	if !msg.Principal.CanModify(comment.AuthorID) {
		context.Respond(utils.NewForbiddenError("you may only edit your own comments"))
		return
	}

	content := strings.TrimSpace(msg.Content)
	if appErr := validateCommentContent(content); appErr != nil {
		context.Respond(appErr)
		return
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()
	if err := a.db.SaveComment(ctx, comment); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update comment", err))
		return
	}

	a.populateAuthor(ctx, comment)
	context.Respond(comment)
}

func (a *CommentActor) handleDelete(context actor.Context, msg *DeleteCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}

	if !msg.Principal.CanModify(comment.AuthorID) {
		context.Respond(utils.NewForbiddenError("you may only delete your own comments"))
		return
	}

	if err := a.db.DeleteComment(ctx, msg.CommentID); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete comment", err))
		return
	}

	a.auditor.Record(audit.ActionCommentDelete, msg.Principal.ID, msg.CommentID,
		map[string]string{"postId": comment.PostID.String()})
	context.Respond(true)
}

func (a *CommentActor) handleToggleLike(context actor.Context, msg *ToggleLikeMsg) {
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}

	comment.ToggleLike(msg.Principal.ID)
	comment.UpdatedAt = time.Now()
	if err := a.db.SaveComment(ctx, comment); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to toggle like", err))
		return
	}

	a.populateAuthor(ctx, comment)
	context.Respond(comment)
}

func (a *CommentActor) handleFlag(context actor.Context, msg *FlagCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}

	if comment.FlaggedBy(msg.Principal.ID) {
		context.Respond(utils.NewAppError(utils.ErrAlreadyFlagged, "You have already flagged this comment", nil))
		return
	}

	comment.Flags = append(comment.Flags, msg.Principal.ID)
	comment.UpdatedAt = time.Now()
	if err := a.db.SaveComment(ctx, comment); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to flag comment", err))
		return
	}

	a.populateAuthor(ctx, comment)
	context.Respond(comment)
}

func (a *CommentActor) handleUnflag(context actor.Context, msg *UnflagCommentMsg) {
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(utils.NewNotFoundError("Comment"))
		return
	}

	comment.RemoveFlag(msg.Principal.ID)
	comment.UpdatedAt = time.Now()
	if err := a.db.SaveComment(ctx, comment); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to unflag comment", err))
		return
	}

	a.populateAuthor(ctx, comment)
	context.Respond(comment)
}

func (a *CommentActor) handleFlagged(context actor.Context) {
	ctx := stdctx.Background()
	comments, err := a.db.GetFlaggedComments(ctx)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to fetch flagged comments", err))
		return
	}
	for _, comment := range comments {
		a.populateAuthor(ctx, comment)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	context.Respond(comments)
}
