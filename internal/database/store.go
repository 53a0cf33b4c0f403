package database

import (
	"context"

	"bayou-blog/internal/models"

	"github.com/google/uuid"
)

// Store defines the common interface for the persistent content and
// credential store. It allows swapping MongoDB, PostgreSQL or the in-memory
// backend without touching the actors.
//
// Save* methods are upserts: creation and mutation both go through them.
// Uniqueness of username, email, post title and post slug is enforced by the
// backend (unique indexes / constraints) and surfaces as an AppError with
// code DUPLICATE, so concurrent writers cannot slip past the application
// level probes.
type Store interface {
	// Connection
	Close(ctx context.Context) error

	// Health
	Counts(ctx context.Context) (users, posts, comments int64, err error)

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Post methods
	SavePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPostByTitle(ctx context.Context, title string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]*models.Post, error)
	GetFlaggedPosts(ctx context.Context) ([]*models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	GetFlaggedComments(ctx context.Context) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	DeletePostComments(ctx context.Context, postID uuid.UUID) error
}
