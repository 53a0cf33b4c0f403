// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
)

// MemoryStore is a volatile Store used by the test suite and for local runs
// without a database (DB_TYPE=memory). It enforces the same uniqueness rules
// as the real backends so the duplicate-signup and duplicate-title paths
// behave identically.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	posts    map[uuid.UUID]*models.Post
	comments map[uuid.UUID]*models.Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]*models.User),
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
	}
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) Counts(ctx context.Context) (int64, int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), int64(len(s.posts)), int64(len(s.comments)), nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.users {
		if other.ID == user.ID {
			continue
		}
		if other.Username == user.Username || strings.EqualFold(other.Email, user.Email) {
			return utils.NewAppError(utils.ErrDuplicate, "Username or email already registered", nil)
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User")
	}
	cp := *user
	return &cp, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (s *MemoryStore) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		cp := *user
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return utils.NewNotFoundError("User")
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) SavePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.posts {
		if other.ID == post.ID {
			continue
		}
		if other.Title == post.Title || other.Slug == post.Slug {
			return utils.NewAppError(utils.ErrDuplicate, "A post with this title already exists", nil)
		}
	}
	cp := *post
	cp.Flags = append([]uuid.UUID(nil), post.Flags...)
	s.posts[post.ID] = &cp
	return nil
}

func copyPost(post *models.Post) *models.Post {
	cp := *post
	cp.Flags = append([]uuid.UUID(nil), post.Flags...)
	return &cp
}

func (s *MemoryStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, utils.NewNotFoundError("Post")
	}
	return copyPost(post), nil
}

func (s *MemoryStore) GetPostByTitle(ctx context.Context, title string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, post := range s.posts {
		if post.Title == title {
			return copyPost(post), nil
		}
	}
	return nil, utils.NewNotFoundError("Post")
}

func (s *MemoryStore) listPosts(filter func(*models.Post) bool) []*models.Post {
	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if filter == nil || filter(post) {
			posts = append(posts, copyPost(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (s *MemoryStore) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPosts(nil), nil
}

func (s *MemoryStore) GetFlaggedPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPosts(func(p *models.Post) bool { return len(p.Flags) > 0 }), nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return utils.NewNotFoundError("Post")
	}
	delete(s.posts, id)
	return nil
}

func copyComment(comment *models.Comment) *models.Comment {
	cp := *comment
	cp.Likes = append([]uuid.UUID(nil), comment.Likes...)
	cp.Flags = append([]uuid.UUID(nil), comment.Flags...)
	return &cp
}

func (s *MemoryStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.ID] = copyComment(comment)
	return nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, utils.NewNotFoundError("Comment")
	}
	return copyComment(comment), nil
}

func (s *MemoryStore) listComments(filter func(*models.Comment) bool) []*models.Comment {
	comments := make([]*models.Comment, 0, len(s.comments))
	for _, comment := range s.comments {
		if filter == nil || filter(comment) {
			comments = append(comments, copyComment(comment))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments
}

func (s *MemoryStore) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listComments(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (s *MemoryStore) GetFlaggedComments(ctx context.Context) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listComments(func(c *models.Comment) bool { return len(c.Flags) > 0 }), nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return utils.NewNotFoundError("Comment")
	}
	delete(s.comments, id)
	return nil
}

func (s *MemoryStore) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, comment := range s.comments {
		if comment.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}
