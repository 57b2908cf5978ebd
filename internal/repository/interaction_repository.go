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

// InteractionRepository handles like and bookmark documents.
type InteractionRepository struct {
	collection *mongo.Collection
}

// NewInteractionRepository creates a new instance of InteractionRepository.
func NewInteractionRepository(db *mongo.Database) *InteractionRepository {
	return &InteractionRepository{
		collection: db.Collection("interactions"),
	}
}

// CreateInteraction inserts a like or bookmark. The unique index on
// (user, post, type) rejects duplicates under concurrent toggles.
func (r *InteractionRepository) CreateInteraction(ctx context.Context, interaction *models.Interaction) (*models.Interaction, error) {
	interaction.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, interaction)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert interaction")
		return nil, fmt.Errorf("failed to insert interaction: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	interaction.ID = insertedID

	return interaction, nil
}

// DeleteInteraction removes an interaction by ID.
func (r *InteractionRepository) DeleteInteraction(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete interaction: %v", err)
	}
	return nil
}

// FindInteraction returns the interaction of the given type between a user
// and a post, if any.
func (r *InteractionRepository) FindInteraction(ctx context.Context, userID, postID primitive.ObjectID, interactionType string) (*models.Interaction, error) {
	filter := bson.M{"user": userID, "post": postID, "type": interactionType}

	var interaction models.Interaction
	err := r.collection.FindOne(ctx, filter).Decode(&interaction)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find interaction: %v", err)
	}
	return &interaction, nil
}

// GetLikes returns a page of a post's likes, newest first.
func (r *InteractionRepository) GetLikes(ctx context.Context, postID primitive.ObjectID, page, limit int64) ([]models.Interaction, error) {
	filter := bson.M{"post": postID, "type": models.InteractionLike}
	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch likes: %v", err)
	}
	defer cursor.Close(ctx)

	var likes []models.Interaction
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, fmt.Errorf("failed to decode likes: %v", err)
	}
	return likes, nil
}

// CountByPostAndType counts interactions of one type on a post. This is the
// source of truth the denormalized post counters approximate.
func (r *InteractionRepository) CountByPostAndType(ctx context.Context, postID primitive.ObjectID, interactionType string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"post": postID, "type": interactionType})
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %v", err)
	}
	return count, nil
}
