// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"bayou-blog/internal/models"
	"bayou-blog/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostDocument represents post data in MongoDB
type PostDocument struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"authorId"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Image     string    `bson:"image,omitempty"`
	Category  string    `bson:"category"`
	Slug      string    `bson:"slug"`
	Flags     []string  `bson:"flags"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func postToDocument(post *models.Post) *PostDocument {
	doc := &PostDocument{
		ID:        post.ID.String(),
		AuthorID:  post.AuthorID.String(),
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		Category:  post.Category,
		Slug:      post.Slug,
		Flags:     make([]string, len(post.Flags)),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	for i, id := range post.Flags {
		doc.Flags[i] = id.String()
	}
	return doc
}

func documentToPost(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}
	flags := make([]uuid.UUID, len(doc.Flags))
	for i, s := range doc.Flags {
		flagID, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid flag user ID in database: %v", err)
		}
		flags[i] = flagID
	}
	return &models.Post{
		ID:        id,
		AuthorID:  authorID,
		Title:     doc.Title,
		Content:   doc.Content,
		Image:     doc.Image,
		Category:  doc.Category,
		Slug:      doc.Slug,
		Flags:     flags,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// SavePost creates or updates a post. Title and slug carry unique indexes,
// so a racing duplicate insert fails with DUPLICATE regardless of any
// earlier application-level probe.
func (m *MongoDB) SavePost(ctx context.Context, post *models.Post) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": post.ID.String()}
	update := bson.M{"$set": postToDocument(post)}

	_, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrDuplicate, "A post with this title already exists", err)
	}
	return err
}

// GetPost retrieves a post by ID
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument
	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Post")
	}
	if err != nil {
		return nil, err
	}
	return documentToPost(&doc)
}

// GetPostByTitle retrieves a post by exact title, for the create-time
// uniqueness probe.
func (m *MongoDB) GetPostByTitle(ctx context.Context, title string) (*models.Post, error) {
	var doc PostDocument
	err := m.Posts.FindOne(ctx, bson.M{"title": title}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Post")
	}
	if err != nil {
		return nil, err
	}
	return documentToPost(&doc)
}

// GetAllPosts returns every post, newest first.
func (m *MongoDB) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	return m.findPosts(ctx, bson.M{})
}

// GetFlaggedPosts returns posts with a non-empty flag set, newest first.
func (m *MongoDB) GetFlaggedPosts(ctx context.Context) ([]*models.Post, error) {
	return m.findPosts(ctx, bson.M{"flags.0": bson.M{"$exists": true}})
}

func (m *MongoDB) findPosts(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	cursor, err := m.Posts.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %v", err)
		}
		post, err := documentToPost(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, cursor.Err()
}

// DeletePost removes the post record only; callers cascade the comment
// deletion explicitly.
func (m *MongoDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Post")
	}
	return nil
}
