package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSelfFollow is returned when a user tries to follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

// FollowService owns the follow toggle and the two user counters that
// mirror the follow documents. The two counter updates are independent
// atomic field updates, not a transaction.
type FollowService struct {
	repo          *repository.FollowRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

// NewFollowService creates a new instance of FollowService.
func NewFollowService(repo *repository.FollowRepository, userRepo *repository.UserRepository, notifications *NotificationService) *FollowService {
	return &FollowService{
		repo:          repo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Toggle follows or unfollows the target user. Returns true when the
// relationship exists afterwards. Following a user notifies them.
func (s *FollowService) Toggle(ctx context.Context, followerID primitive.ObjectID, targetID string) (bool, error) {
	followingID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return false, fmt.Errorf("invalid user ID: %v", err)
	}

	if followingID == followerID {
		return false, ErrSelfFollow
	}

	existing, err := s.repo.FindFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.DeleteFollow(ctx, existing.ID); err != nil {
			return false, err
		}
		s.adjustCounters(ctx, followerID, followingID, -1)

		logrus.WithFields(logrus.Fields{
			"follower":  followerID.Hex(),
			"following": followingID.Hex(),
		}).Info("User unfollowed")
		return false, nil
	}

	follow := &models.Follow{
		Follower:  followerID,
		Following: followingID,
	}
	if _, err := s.repo.CreateFollow(ctx, follow); err != nil {
		return false, err
	}
	s.adjustCounters(ctx, followerID, followingID, 1)

	if err := s.notifications.Notify(ctx, followingID, followerID, models.NotificationFollow, nil); err != nil {
		logrus.WithError(err).Warn("Failed to create follow notification")
	}

	logrus.WithFields(logrus.Fields{
		"follower":  followerID.Hex(),
		"following": followingID.Hex(),
	}).Info("User followed")
	return true, nil
}

// adjustCounters applies the two independent counter updates that mirror a
// follow edge. Failures are logged, not compensated.
func (s *FollowService) adjustCounters(ctx context.Context, followerID, followingID primitive.ObjectID, delta int) {
	if err := s.userRepo.IncrementCounter(ctx, followerID, "followingCount", delta); err != nil {
		logrus.WithError(err).Warn("Failed to adjust followingCount")
	}
	if err := s.userRepo.IncrementCounter(ctx, followingID, "followersCount", delta); err != nil {
		logrus.WithError(err).Warn("Failed to adjust followersCount")
	}
}

// GetFollowers returns a page of the users following the given user.
func (s *FollowService) GetFollowers(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.PublicUser, int64, error) {
	follows, total, err := s.repo.GetFollowers(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.Follower)
	}

	users, err := s.attachUsers(ctx, follows, ids)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetFollowing returns a page of the users the given user follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.PublicUser, int64, error) {
	follows, total, err := s.repo.GetFollowing(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]primitive.ObjectID, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.Following)
	}

	users, err := s.attachUsers(ctx, follows, ids)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// attachUsers resolves follow edges to public profiles, preserving the
// edge order.
func (s *FollowService) attachUsers(ctx context.Context, follows []models.Follow, ids []primitive.ObjectID) ([]models.PublicUser, error) {
	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	usersByID := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for i := range users {
		usersByID[users[i].ID] = users[i].Public()
	}

	result := make([]models.PublicUser, 0, len(ids))
	for _, id := range ids {
		if user, ok := usersByID[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}
