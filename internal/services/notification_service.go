package services

import (
	"context"
	"fmt"
	"time"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// notificationRetention is how long read notifications are kept before the
// cleanup job removes them.
const notificationRetention = 30 * 24 * time.Hour

// NotificationService encapsulates notification business logic.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, postRepo *repository.PostRepository) *NotificationService {
	return &NotificationService{
		repo:     repo,
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// Notify records a notification for the recipient. Notifications about a
// user's own actions are silently suppressed.
func (s *NotificationService) Notify(ctx context.Context, recipient, sender primitive.ObjectID, notifType string, post *primitive.ObjectID) error {
	if recipient == sender {
		return nil
	}

	notif := &models.Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      notifType,
	}
	if post != nil {
		notif.Post = *post
	}

	return s.repo.CreateNotification(ctx, notif)
}

// GetNotifications returns the newest notifications for a user with the
// sender and post excerpts attached.
func (s *NotificationService) GetNotifications(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.NotificationView, error) {
	notifications, err := s.repo.GetForRecipient(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(notifications))
	postIDs := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		senderIDs = append(senderIDs, n.Sender)
		if !n.Post.IsZero() {
			postIDs = append(postIDs, n.Post)
		}
	}

	senders, err := s.userRepo.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	sendersByID := make(map[primitive.ObjectID]models.BriefUser, len(senders))
	for i := range senders {
		sendersByID[senders[i].ID] = senders[i].Brief()
	}

	postsByID := make(map[primitive.ObjectID]models.NotificationPost, len(postIDs))
	for _, id := range postIDs {
		if _, ok := postsByID[id]; ok {
			continue
		}
		post, err := s.postRepo.GetPostByID(ctx, id)
		if err != nil {
			continue
		}
		postsByID[id] = models.NotificationPost{ID: post.ID, Content: post.Content}
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := models.NotificationView{
			Notification: n,
			Sender:       sendersByID[n.Sender],
		}
		if !n.Post.IsZero() {
			if excerpt, ok := postsByID[n.Post]; ok {
				view.Post = &excerpt
			}
		}
		views = append(views, view)
	}

	return views, nil
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead flags one notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead flags all of a user's notifications as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// CleanupRead deletes read notifications older than the retention window
// and reports how many were removed.
func (s *NotificationService) CleanupRead(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-notificationRetention)

	deleted, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("Notification cleanup failed")
		return 0, fmt.Errorf("notification cleanup failed: %v", err)
	}
	return deleted, nil
}
