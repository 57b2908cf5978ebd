package services

import (
	"context"
	"fmt"
	"time"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostService encapsulates post business logic: creation with streak and
// heatmap tracking, archiving, listing and the follow-based feed.
type PostService struct {
	repo       *repository.PostRepository
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
}

// NewPostService creates a new instance of PostService.
func NewPostService(repo *repository.PostRepository, userRepo *repository.UserRepository, followRepo *repository.FollowRepository) *PostService {
	return &PostService{
		repo:       repo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// CreatePostInput carries a new post's fields.
type CreatePostInput struct {
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Images   []string `json:"images"`
	Tags     []string `json:"tags"`
}

// CreatePost validates and stores a new post, then updates the author's
// streak, activity heatmap and postsCount.
func (s *PostService) CreatePost(ctx context.Context, authorID primitive.ObjectID, input CreatePostInput) (*models.Post, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("post content is required")
	}
	if !models.AllowedCategories[input.Category] {
		return nil, fmt.Errorf("invalid category")
	}
	if input.Status == "" {
		input.Status = "pending"
	}
	if !models.AllowedStatuses[input.Status] {
		return nil, fmt.Errorf("invalid status")
	}

	post := &models.Post{
		Author:   authorID,
		Content:  input.Content,
		Category: input.Category,
		Status:   input.Status,
		Images:   input.Images,
		Tags:     input.Tags,
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	// Streak, heatmap and counter updates follow the post write; a crash
	// in between leaves them behind the documents, which is accepted.
	user, err := s.userRepo.GetUserByID(ctx, authorID)
	if err != nil {
		logrus.WithError(err).Warn("Post created but author lookup failed")
		return created, nil
	}

	now := time.Now()
	user.AddActivity(now)
	user.UpdateStreak(now)

	if err := s.userRepo.UpdateUser(ctx, authorID, bson.M{
		"streak":          user.Streak,
		"lastActive":      user.LastActive,
		"activityHeatmap": user.ActivityHeatmap,
	}); err != nil {
		logrus.WithError(err).Warn("Post created but streak update failed")
	}
	if err := s.userRepo.IncrementCounter(ctx, authorID, "postsCount", 1); err != nil {
		logrus.WithError(err).Warn("Post created but postsCount increment failed")
	}

	return created, nil
}

// GetPost returns a post by hex ID. Archived posts are reported as
// missing.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.PostView, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	post, err := s.repo.GetPostByID(ctx, objID)
	if err != nil || post.IsArchived {
		return nil, fmt.Errorf("post not found")
	}

	views, err := s.attachAuthors(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetPostRaw returns a post by hex ID regardless of archive state, for
// ownership checks on mutations.
func (s *PostService) GetPostRaw(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}
	return s.repo.GetPostByID(ctx, objID)
}

// GetPosts returns a page of all visible posts, optionally filtered by
// category.
func (s *PostService) GetPosts(ctx context.Context, category string, page, limit int64) ([]models.PostView, int64, error) {
	posts, total, err := s.repo.GetPosts(ctx, category, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.attachAuthors(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetAllPosts returns a page of every post, archived ones included, for
// moderation.
func (s *PostService) GetAllPosts(ctx context.Context, page, limit int64) ([]models.PostView, int64, error) {
	posts, total, err := s.repo.GetAllPosts(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.attachAuthors(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetUserPosts returns a page of one user's visible posts.
func (s *PostService) GetUserPosts(ctx context.Context, userID string, page, limit int64) ([]models.PostView, int64, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user ID: %v", err)
	}

	posts, total, err := s.repo.GetPostsByAuthor(ctx, objID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.attachAuthors(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetFeed returns a page of posts authored by the users the viewer
// follows, plus the viewer's own posts, newest first.
func (s *PostService) GetFeed(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.PostView, int64, error) {
	authorIDs, err := s.followRepo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	authorIDs = append(authorIDs, userID)

	posts, total, err := s.repo.GetPostsByAuthors(ctx, authorIDs, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.attachAuthors(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// UpdatePostInput carries the mutable post fields; empty values are left
// unchanged.
type UpdatePostInput struct {
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Images   []string `json:"images"`
	Tags     []string `json:"tags"`
}

// UpdatePost merges the provided fields into the post. Authorization is
// the caller's responsibility.
func (s *PostService) UpdatePost(ctx context.Context, post *models.Post, input UpdatePostInput) (*models.Post, error) {
	update := bson.M{}

	if input.Content != "" {
		update["content"] = input.Content
		post.Content = input.Content
	}
	if input.Category != "" {
		if !models.AllowedCategories[input.Category] {
			return nil, fmt.Errorf("invalid category")
		}
		update["category"] = input.Category
		post.Category = input.Category
	}
	if input.Status != "" {
		if !models.AllowedStatuses[input.Status] {
			return nil, fmt.Errorf("invalid status")
		}
		update["status"] = input.Status
		post.Status = input.Status
		if input.Status == "completed" && post.CompletedAt.IsZero() {
			now := time.Now()
			update["completedAt"] = now
			post.CompletedAt = now
		}
	}
	if input.Images != nil {
		update["images"] = input.Images
		post.Images = input.Images
	}
	if input.Tags != nil {
		update["tags"] = input.Tags
		post.Tags = input.Tags
	}

	if len(update) > 0 {
		if err := s.repo.UpdatePost(ctx, post.ID, update); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// ArchivePost soft-deletes a post and decrements the author's postsCount.
// The document and its comments and interactions stay in storage.
func (s *PostService) ArchivePost(ctx context.Context, post *models.Post) error {
	if err := s.repo.UpdatePost(ctx, post.ID, bson.M{"isArchived": true}); err != nil {
		return err
	}

	if err := s.userRepo.IncrementCounter(ctx, post.Author, "postsCount", -1); err != nil {
		logrus.WithError(err).Warn("Post archived but postsCount decrement failed")
	}

	logrus.WithField("postID", post.ID.Hex()).Info("Post archived")
	return nil
}

// attachAuthors resolves author projections for a batch of posts.
func (s *PostService) attachAuthors(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	seen := make(map[primitive.ObjectID]bool, len(posts))
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		if !seen[p.Author] {
			seen[p.Author] = true
			ids = append(ids, p.Author)
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

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, models.PostView{Post: post, Author: authors[post.Author]})
	}
	return views, nil
}
