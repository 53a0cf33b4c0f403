// internal/database/comment_repository.go
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

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID            string    `bson:"_id"`
	PostID        string    `bson:"postId"`
	AuthorID      string    `bson:"authorId"`
	Content       string    `bson:"content"`
	Likes         []string  `bson:"likes"`
	NumberOfLikes int       `bson:"numberOfLikes"`
	Flags         []string  `bson:"flags"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func commentToDocument(comment *models.Comment) *CommentDocument {
	doc := &CommentDocument{
		ID:            comment.ID.String(),
		PostID:        comment.PostID.String(),
		AuthorID:      comment.AuthorID.String(),
		Content:       comment.Content,
		Likes:         make([]string, len(comment.Likes)),
		NumberOfLikes: comment.NumberOfLikes,
		Flags:         make([]string, len(comment.Flags)),
		CreatedAt:     comment.CreatedAt,
		UpdatedAt:     comment.UpdatedAt,
	}
	for i, id := range comment.Likes {
		doc.Likes[i] = id.String()
	}
	for i, id := range comment.Flags {
		doc.Flags[i] = id.String()
	}
	return doc
}

func documentToComment(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID in database: %v", err)
	}
	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}
	likes := make([]uuid.UUID, len(doc.Likes))
	for i, s := range doc.Likes {
		likeID, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid like user ID in database: %v", err)
		}
		likes[i] = likeID
	}
	flags := make([]uuid.UUID, len(doc.Flags))
	for i, s := range doc.Flags {
		flagID, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid flag user ID in database: %v", err)
		}
		flags[i] = flagID
	}
	return &models.Comment{
		ID:            id,
		PostID:        postID,
		AuthorID:      authorID,
		Content:       doc.Content,
		Likes:         likes,
		NumberOfLikes: doc.NumberOfLikes,
		Flags:         flags,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}

// SaveComment creates or updates a comment. Like and flag toggles come
// through here as whole-document writes, so the stored numberOfLikes always
// matches the stored like set.
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": comment.ID.String()}
	update := bson.M{"$set": commentToDocument(comment)}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save comment: %v", err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument
	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Comment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %v", err)
	}
	return documentToComment(&doc)
}

// GetPostComments retrieves all comments for a post, newest first
func (m *MongoDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	return m.findComments(ctx, bson.M{"postId": postID.String()})
}

// GetFlaggedComments returns comments with a non-empty flag set, newest first.
func (m *MongoDB) GetFlaggedComments(ctx context.Context) ([]*models.Comment, error) {
	return m.findComments(ctx, bson.M{"flags.0": bson.M{"$exists": true}})
}

func (m *MongoDB) findComments(ctx context.Context, filter bson.M) ([]*models.Comment, error) {
	cursor, err := m.Comments.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}
		comment, err := documentToComment(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, cursor.Err()
}

// DeleteComment removes a single comment.
func (m *MongoDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := m.Comments.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Comment")
	}
	return nil
}

// DeletePostComments removes every comment under a post, as the cascade step
// of post deletion. Deleting zero comments is fine.
func (m *MongoDB) DeletePostComments(ctx context.Context, postID uuid.UUID) error {
	_, err := m.Comments.DeleteMany(ctx, bson.M{"postId": postID.String()})
	return err
}
