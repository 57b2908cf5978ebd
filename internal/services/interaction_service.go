package services

import (
	"context"
	"fmt"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionService owns the like/bookmark toggles and keeps the
// denormalized post counters in step with the interaction documents. The
// counter update runs immediately after the interaction write succeeds;
// there is no transaction tying the two together, so the counters are
// best-effort caches of the real interaction counts.
type InteractionService struct {
	repo          *repository.InteractionRepository
	postRepo      *repository.PostRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

// NewInteractionService creates a new instance of InteractionService.
func NewInteractionService(repo *repository.InteractionRepository, postRepo *repository.PostRepository, userRepo *repository.UserRepository, notifications *NotificationService) *InteractionService {
	return &InteractionService{
		repo:          repo,
		postRepo:      postRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Toggle flips an interaction of the given type between a user and a post.
// Returns true when the interaction is active afterwards. Liking a post
// notifies its author.
func (s *InteractionService) Toggle(ctx context.Context, userID, postID primitive.ObjectID, interactionType string) (bool, error) {
	if interactionType != models.InteractionLike && interactionType != models.InteractionBookmark {
		return false, fmt.Errorf("invalid interaction type: %s", interactionType)
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("post not found")
	}

	counterField := interactionType + "sCount"

	existing, err := s.repo.FindInteraction(ctx, userID, postID, interactionType)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.DeleteInteraction(ctx, existing.ID); err != nil {
			return false, err
		}
		if err := s.postRepo.IncrementCounter(ctx, postID, counterField, -1); err != nil {
			logrus.WithError(err).Warn("Interaction removed but counter decrement failed")
		}
		return false, nil
	}

	interaction := &models.Interaction{
		User: userID,
		Post: postID,
		Type: interactionType,
	}
	if _, err := s.repo.CreateInteraction(ctx, interaction); err != nil {
		return false, err
	}
	if err := s.postRepo.IncrementCounter(ctx, postID, counterField, 1); err != nil {
		logrus.WithError(err).Warn("Interaction created but counter increment failed")
	}

	if interactionType == models.InteractionLike {
		if err := s.notifications.Notify(ctx, post.Author, userID, models.NotificationLike, &postID); err != nil {
			logrus.WithError(err).Warn("Failed to create like notification")
		}
	}

	return true, nil
}

// GetLikes returns a page of a post's likes with each liking user's public
// profile attached, plus the total like count.
func (s *InteractionService) GetLikes(ctx context.Context, postID primitive.ObjectID, page, limit int64) ([]models.LikeView, int64, error) {
	likes, err := s.repo.GetLikes(ctx, postID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(likes))
	for _, like := range likes {
		userIDs = append(userIDs, like.User)
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, 0, err
	}
	usersByID := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for i := range users {
		usersByID[users[i].ID] = users[i].Public()
	}

	views := make([]models.LikeView, 0, len(likes))
	for _, like := range likes {
		views = append(views, models.LikeView{
			ID:        like.ID,
			User:      usersByID[like.User],
			CreatedAt: like.CreatedAt,
		})
	}

	total, err := s.repo.CountByPostAndType(ctx, postID, models.InteractionLike)
	if err != nil {
		return nil, 0, err
	}

	return views, total, nil
}
