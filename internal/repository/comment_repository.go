package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository handles database operations related to comments.
type CommentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository creates a new instance of CommentRepository.
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		collection: db.Collection("comments"),
	}
}

// CreateComment inserts a new comment.
func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert comment")
		return nil, fmt.Errorf("failed to insert comment: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	comment.ID = insertedID

	return comment, nil
}

// GetCommentByID fetches a single comment.
func (r *CommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment by id: %v", err)
	}
	return &comment, nil
}

// UpdateContent replaces a comment's content.
func (r *CommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update comment: %v", err)
	}
	return nil
}

// DeleteComment removes a comment document by a direct filtered delete.
func (r *CommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"commentID": id.Hex(),
			"error":     err,
		}).Error("Failed to delete comment")
		return fmt.Errorf("failed to delete comment: %v", err)
	}
	return nil
}

// GetPostComments returns the newest top-level comments of a post.
func (r *CommentRepository) GetPostComments(ctx context.Context, postID primitive.ObjectID, limit int64) ([]models.Comment, error) {
	filter := bson.M{"post": postID, "parentComment": bson.M{"$in": bson.A{nil, primitive.NilObjectID}}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %v", err)
	}
	return comments, nil
}

// GetReplies returns all replies to a comment, oldest first.
func (r *CommentRepository) GetReplies(ctx context.Context, commentID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"parentComment": commentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch replies: %v", err)
	}
	defer cursor.Close(ctx)

	var replies []models.Comment
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, fmt.Errorf("failed to decode replies: %v", err)
	}
	return replies, nil
}
