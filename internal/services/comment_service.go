package services

import (
	"context"
	"fmt"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService encapsulates comment business logic and the commentsCount
// maintenance on the parent post.
type CommentService struct {
	repo          *repository.CommentRepository
	postRepo      *repository.PostRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

// NewCommentService creates a new instance of CommentService.
func NewCommentService(repo *repository.CommentRepository, postRepo *repository.PostRepository, userRepo *repository.UserRepository, notifications *NotificationService) *CommentService {
	return &CommentService{
		repo:          repo,
		postRepo:      postRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// CreateComment adds a comment (or reply) to a post, bumps the post's
// commentsCount and notifies the post author.
func (s *CommentService) CreateComment(ctx context.Context, postID, authorID primitive.ObjectID, content string, parentComment primitive.ObjectID) (*models.CommentView, error) {
	if content == "" {
		return nil, fmt.Errorf("comment content is required")
	}

	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("post not found")
	}

	comment := &models.Comment{
		Post:          postID,
		Author:        authorID,
		Content:       content,
		ParentComment: parentComment,
	}

	created, err := s.repo.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementCounter(ctx, postID, "commentsCount", 1); err != nil {
		logrus.WithError(err).Warn("Comment created but counter increment failed")
	}

	if err := s.notifications.Notify(ctx, post.Author, authorID, models.NotificationComment, &postID); err != nil {
		logrus.WithError(err).Warn("Failed to create comment notification")
	}

	author, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	return &models.CommentView{Comment: *created, Author: author.Brief()}, nil
}

// GetComments returns a post's newest top-level comments, each with its
// replies (oldest first) and author projections attached.
func (s *CommentService) GetComments(ctx context.Context, postID primitive.ObjectID, limit int64) ([]models.CommentThread, error) {
	comments, err := s.repo.GetPostComments(ctx, postID, limit)
	if err != nil {
		return nil, err
	}

	all := make([]models.Comment, 0, len(comments))
	all = append(all, comments...)

	repliesByParent := make(map[primitive.ObjectID][]models.Comment, len(comments))
	for _, comment := range comments {
		replies, err := s.repo.GetReplies(ctx, comment.ID)
		if err != nil {
			return nil, err
		}
		repliesByParent[comment.ID] = replies
		all = append(all, replies...)
	}

	authors, err := s.authorsByID(ctx, all)
	if err != nil {
		return nil, err
	}

	threads := make([]models.CommentThread, 0, len(comments))
	for _, comment := range comments {
		thread := models.CommentThread{
			CommentView: models.CommentView{Comment: comment, Author: authors[comment.Author]},
			Replies:     []models.CommentView{},
		}
		for _, reply := range repliesByParent[comment.ID] {
			thread.Replies = append(thread.Replies, models.CommentView{
				Comment: reply,
				Author:  authors[reply.Author],
			})
		}
		threads = append(threads, thread)
	}

	return threads, nil
}

// GetComment fetches one comment.
func (s *CommentService) GetComment(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	return s.repo.GetCommentByID(ctx, id)
}

// UpdateComment replaces a comment's content. Authorization is the
// caller's responsibility.
func (s *CommentService) UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("comment content is required")
	}

	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	return s.repo.GetCommentByID(ctx, id)
}

// DeleteComment removes a comment document.
//
// TODO: decide whether deletion should decrement the parent post's
// commentsCount; the direct delete below leaves the counter untouched.
func (s *CommentService) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.DeleteComment(ctx, id)
}

func (s *CommentService) authorsByID(ctx context.Context, comments []models.Comment) (map[primitive.ObjectID]models.BriefUser, error) {
	seen := make(map[primitive.ObjectID]bool, len(comments))
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		if !seen[c.Author] {
			seen[c.Author] = true
			ids = append(ids, c.Author)
		}
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	authors := make(map[primitive.ObjectID]models.BriefUser, len(users))
	for i := range users {
		authors[users[i].ID] = users[i].Brief()
	}
	return authors, nil
}
