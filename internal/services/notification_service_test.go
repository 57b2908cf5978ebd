package services

import (
	"context"
	"testing"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotifySuppressesSelfNotification(t *testing.T) {
	// A nil repository would panic on any write, so reaching the happy
	// return proves the self-notification never touches the store.
	s := NewNotificationService(nil, nil, nil)

	userID := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	err := s.Notify(context.Background(), userID, userID, models.NotificationLike, &postID)

	assert.NoError(t, err)
}
