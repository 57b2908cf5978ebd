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

// PostRepository handles database operations related to posts.
type PostRepository struct {
	collection *mongo.Collection
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("posts"),
	}
}

// CreatePost inserts a new post.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert post")
		return nil, fmt.Errorf("failed to insert post: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	post.ID = insertedID

	logrus.WithField("postID", post.ID.Hex()).Info("Post created successfully")
	return post, nil
}

// GetPostByID fetches a post by its ID, archived or not.
func (r *PostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return nil, fmt.Errorf("failed to find post by id: %v", err)
	}
	return &post, nil
}

// UpdatePost applies a partial update to a post document.
func (r *PostRepository) UpdatePost(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	update["updatedAt"] = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"postID": id.Hex(),
			"error":  err,
		}).Error("Failed to update post")
		return fmt.Errorf("failed to update post: %v", err)
	}
	return nil
}

// IncrementCounter atomically adjusts one of the post's counter fields.
// This is the single write path for likesCount, bookmarksCount and
// commentsCount.
func (r *PostRepository) IncrementCounter(ctx context.Context, id primitive.ObjectID, field string, delta int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"postID": id.Hex(),
			"field":  field,
			"error":  err,
		}).Error("Failed to update post counter")
		return fmt.Errorf("failed to update post counter %s: %v", field, err)
	}
	return nil
}

// GetPosts returns a page of non-archived posts, optionally filtered by
// category, newest first, with the total match count.
func (r *PostRepository) GetPosts(ctx context.Context, category string, page, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"isArchived": false}
	if category != "" {
		filter["category"] = category
	}

	return r.findPage(ctx, filter, page, limit)
}

// GetAllPosts returns a page of every post, archived included, newest
// first. Admin-only listing.
func (r *PostRepository) GetAllPosts(ctx context.Context, page, limit int64) ([]models.Post, int64, error) {
	return r.findPage(ctx, bson.M{}, page, limit)
}

// GetPostsByAuthor returns a page of one author's non-archived posts,
// newest first.
func (r *PostRepository) GetPostsByAuthor(ctx context.Context, author primitive.ObjectID, page, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"author": author, "isArchived": false}
	return r.findPage(ctx, filter, page, limit)
}

// GetPostsByAuthors returns a page of non-archived posts authored by any of
// the given users, newest first. This backs the feed.
func (r *PostRepository) GetPostsByAuthors(ctx context.Context, authors []primitive.ObjectID, page, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"author": bson.M{"$in": authors}, "isArchived": false}
	return r.findPage(ctx, filter, page, limit)
}

// GetRecentByAuthor returns the author's latest non-archived posts without
// pagination bookkeeping, used on profile pages.
func (r *PostRepository) GetRecentByAuthor(ctx context.Context, author primitive.ObjectID, limit int64) ([]models.Post, error) {
	filter := bson.M{"author": author, "isArchived": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %v", err)
	}
	return posts, nil
}

func (r *PostRepository) findPage(ctx context.Context, filter bson.M, page, limit int64) ([]models.Post, int64, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %v", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %v", err)
	}

	return posts, total, nil
}
