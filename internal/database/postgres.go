// internal/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDB is the relational implementation of Store. The like and flag
// sets are stored as uuid arrays on the owning row, matching the document
// model: toggles remain single-row read-modify-write operations.
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	p := &PostgresDB{DB: db}
	if err := p.initSchema(); err != nil {
		return nil, err
	}

	slog.Info("connected to PostgreSQL")
	return p, nil
}

func (p *PostgresDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id              UUID PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		email           TEXT NOT NULL UNIQUE,
		password_hash   TEXT NOT NULL,
		profile_picture TEXT NOT NULL DEFAULT '',
		role            TEXT NOT NULL DEFAULT 'user',
		status          TEXT NOT NULL DEFAULT 'active',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS posts (
		id         UUID PRIMARY KEY,
		author_id  UUID NOT NULL,
		title      TEXT NOT NULL UNIQUE,
		content    TEXT NOT NULL,
		image      TEXT NOT NULL DEFAULT '',
		category   TEXT NOT NULL DEFAULT 'uncategorized',
		slug       TEXT NOT NULL UNIQUE,
		flags      UUID[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC);

	CREATE TABLE IF NOT EXISTS comments (
		id              UUID PRIMARY KEY,
		post_id         UUID NOT NULL,
		author_id       UUID NOT NULL,
		content         TEXT NOT NULL,
		likes           UUID[] NOT NULL DEFAULT '{}',
		number_of_likes INT NOT NULL DEFAULT 0,
		flags           UUID[] NOT NULL DEFAULT '{}',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments (post_id, created_at DESC);
	`
	if _, err := p.DB.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL schema: %v", err)
	}
	return nil
}

func (p *PostgresDB) Close(ctx context.Context) error {
	return p.DB.Close()
}

// Counts reports table sizes for the health endpoint.
func (p *PostgresDB) Counts(ctx context.Context) (int64, int64, int64, error) {
	var users, posts, comments int64
	if err := p.DB.GetContext(ctx, &users, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, 0, 0, err
	}
	if err := p.DB.GetContext(ctx, &posts, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, 0, 0, err
	}
	if err := p.DB.GetContext(ctx, &comments, `SELECT COUNT(*) FROM comments`); err != nil {
		return 0, 0, 0, err
	}
	return users, posts, comments, nil
}

func isPqDuplicate(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// userRow mirrors the users table.
type userRow struct {
	ID             uuid.UUID `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	PasswordHash   string    `db:"password_hash"`
	ProfilePicture string    `db:"profile_picture"`
	Role           string    `db:"role"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *userRow) toModel() *models.User {
	return &models.User{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: r.PasswordHash,
		ProfilePicture: r.ProfilePicture,
		Role:           models.Role(r.Role),
		Status:         models.Status(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (p *PostgresDB) SaveUser(ctx context.Context, user *models.User) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, profile_picture, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			profile_picture = EXCLUDED.profile_picture,
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		user.ID, user.Username, user.Email, user.HashedPassword, user.ProfilePicture,
		string(user.Role), string(user.Status), user.CreatedAt, user.UpdatedAt)
	if isPqDuplicate(err) {
		return utils.NewAppError(utils.ErrDuplicate, "Username or email already registered", err)
	}
	return err
}

func (p *PostgresDB) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var row userRow
	err := p.DB.GetContext(ctx, &row, query, arg)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("User")
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (p *PostgresDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return p.getUser(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

func (p *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return p.getUser(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (p *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return p.getUser(ctx, `SELECT * FROM users WHERE username = $1`, username)
}

func (p *PostgresDB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	var rows []userRow
	if err := p.DB.SelectContext(ctx, &rows, `SELECT * FROM users ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	users := make([]*models.User, len(rows))
	for i := range rows {
		users[i] = rows[i].toModel()
	}
	return users, nil
}

func (p *PostgresDB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return utils.NewNotFoundError("User")
	}
	return nil
}

// postRow mirrors the posts table.
type postRow struct {
	ID        uuid.UUID      `db:"id"`
	AuthorID  uuid.UUID      `db:"author_id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	Image     string         `db:"image"`
	Category  string         `db:"category"`
	Slug      string         `db:"slug"`
	Flags     pq.StringArray `db:"flags"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *postRow) toModel() (*models.Post, error) {
	flags, err := parseUUIDs(r.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid flag user ID in database: %v", err)
	}
	return &models.Post{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Title:     r.Title,
		Content:   r.Content,
		Image:     r.Image,
		Category:  r.Category,
		Slug:      r.Slug,
		Flags:     flags,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, s := range values {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func uuidStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (p *PostgresDB) SavePost(ctx context.Context, post *models.Post) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, title, content, image, category, slug, flags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid[], $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			image = EXCLUDED.image,
			category = EXCLUDED.category,
			slug = EXCLUDED.slug,
			flags = EXCLUDED.flags,
			updated_at = EXCLUDED.updated_at`,
		post.ID, post.AuthorID, post.Title, post.Content, post.Image, post.Category,
		post.Slug, uuidStrings(post.Flags), post.CreatedAt, post.UpdatedAt)
	if isPqDuplicate(err) {
		return utils.NewAppError(utils.ErrDuplicate, "A post with this title already exists", err)
	}
	return err
}

func (p *PostgresDB) getPost(ctx context.Context, query string, arg interface{}) (*models.Post, error) {
	var row postRow
	err := p.DB.GetContext(ctx, &row, query, arg)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Post")
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (p *PostgresDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return p.getPost(ctx, `SELECT * FROM posts WHERE id = $1`, id)
}

func (p *PostgresDB) GetPostByTitle(ctx context.Context, title string) (*models.Post, error) {
	return p.getPost(ctx, `SELECT * FROM posts WHERE title = $1`, title)
}

func (p *PostgresDB) selectPosts(ctx context.Context, query string) ([]*models.Post, error) {
	var rows []postRow
	if err := p.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	posts := make([]*models.Post, len(rows))
	for i := range rows {
		post, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

func (p *PostgresDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	return p.selectPosts(ctx, `SELECT * FROM posts ORDER BY created_at DESC`)
}

func (p *PostgresDB) GetFlaggedPosts(ctx context.Context) ([]*models.Post, error) {
	return p.selectPosts(ctx, `SELECT * FROM posts WHERE cardinality(flags) > 0 ORDER BY created_at DESC`)
}

func (p *PostgresDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return utils.NewNotFoundError("Post")
	}
	return nil
}

// commentRow mirrors the comments table.
type commentRow struct {
	ID            uuid.UUID      `db:"id"`
	PostID        uuid.UUID      `db:"post_id"`
	AuthorID      uuid.UUID      `db:"author_id"`
	Content       string         `db:"content"`
	Likes         pq.StringArray `db:"likes"`
	NumberOfLikes int            `db:"number_of_likes"`
	Flags         pq.StringArray `db:"flags"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *commentRow) toModel() (*models.Comment, error) {
	likes, err := parseUUIDs(r.Likes)
	if err != nil {
		return nil, fmt.Errorf("invalid like user ID in database: %v", err)
	}
	flags, err := parseUUIDs(r.Flags)
	if err != nil {
		return nil, fmt.Errorf("invalid flag user ID in database: %v", err)
	}
	return &models.Comment{
		ID:            r.ID,
		PostID:        r.PostID,
		AuthorID:      r.AuthorID,
		Content:       r.Content,
		Likes:         likes,
		NumberOfLikes: r.NumberOfLikes,
		Flags:         flags,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

func (p *PostgresDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, content, likes, number_of_likes, flags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::uuid[], $6, $7::uuid[], $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			likes = EXCLUDED.likes,
			number_of_likes = EXCLUDED.number_of_likes,
			flags = EXCLUDED.flags,
			updated_at = EXCLUDED.updated_at`,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content,
		uuidStrings(comment.Likes), comment.NumberOfLikes, uuidStrings(comment.Flags),
		comment.CreatedAt, comment.UpdatedAt)
	return err
}

func (p *PostgresDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var row commentRow
	err := p.DB.GetContext(ctx, &row, `SELECT * FROM comments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Comment")
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (p *PostgresDB) selectComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	var rows []commentRow
	if err := p.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	comments := make([]*models.Comment, len(rows))
	for i := range rows {
		comment, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		comments[i] = comment
	}
	return comments, nil
}

func (p *PostgresDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	return p.selectComments(ctx,
		`SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at DESC`, postID)
}

func (p *PostgresDB) GetFlaggedComments(ctx context.Context) ([]*models.Comment, error) {
	return p.selectComments(ctx,
		`SELECT * FROM comments WHERE cardinality(flags) > 0 ORDER BY created_at DESC`)
}

func (p *PostgresDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return utils.NewNotFoundError("Comment")
	}
	return nil
}

func (p *PostgresDB) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	_, err := p.DB.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID)
	return err
}
