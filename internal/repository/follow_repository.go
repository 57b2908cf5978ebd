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

// FollowRepository handles follow relationship documents.
type FollowRepository struct {
	collection *mongo.Collection
}

// NewFollowRepository creates a new instance of FollowRepository.
func NewFollowRepository(db *mongo.Database) *FollowRepository {
	return &FollowRepository{
		collection: db.Collection("follows"),
	}
}

// CreateFollow inserts a follow edge. The unique index on
// (follower, following) rejects duplicates under concurrent toggles.
func (r *FollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) (*models.Follow, error) {
	follow.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, follow)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert follow")
		return nil, fmt.Errorf("failed to insert follow: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	follow.ID = insertedID

	return follow, nil
}

// DeleteFollow removes a follow edge by ID.
func (r *FollowRepository) DeleteFollow(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete follow: %v", err)
	}
	return nil
}

// FindFollow returns the follow edge between two users, or nil when the
// follower does not follow the target.
func (r *FollowRepository) FindFollow(ctx context.Context, follower, following primitive.ObjectID) (*models.Follow, error) {
	filter := bson.M{"follower": follower, "following": following}

	var follow models.Follow
	err := r.collection.FindOne(ctx, filter).Decode(&follow)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find follow: %v", err)
	}
	return &follow, nil
}

// GetFollowers returns a page of follow edges pointing at a user, newest
// first, with the total count.
func (r *FollowRepository) GetFollowers(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Follow, int64, error) {
	return r.findPage(ctx, bson.M{"following": userID}, page, limit)
}

// GetFollowing returns a page of follow edges originating from a user,
// newest first, with the total count.
func (r *FollowRepository) GetFollowing(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Follow, int64, error) {
	return r.findPage(ctx, bson.M{"follower": userID}, page, limit)
}

// GetFollowingIDs returns the ids of every user the given user follows,
// used to resolve the feed author set.
func (r *FollowRepository) GetFollowingIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"follower": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch following: %v", err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var follow models.Follow
		if err := cursor.Decode(&follow); err != nil {
			return nil, fmt.Errorf("failed to decode follow: %v", err)
		}
		ids = append(ids, follow.Following)
	}

	return ids, nil
}

func (r *FollowRepository) findPage(ctx context.Context, filter bson.M, page, limit int64) ([]models.Follow, int64, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch follows: %v", err)
	}
	defer cursor.Close(ctx)

	var follows []models.Follow
	if err := cursor.All(ctx, &follows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode follows: %v", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count follows: %v", err)
	}

	return follows, total, nil
}
