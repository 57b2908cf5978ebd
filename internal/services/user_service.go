package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BereketMelese/Bloom/internal/models"
	"github.com/BereketMelese/Bloom/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const bcryptCost = 12

// ImageUploader is the image hosting collaborator used for avatars and
// cover images. *images.Client satisfies it.
type ImageUploader interface {
	Upload(ctx context.Context, source string) (string, error)
	Destroy(ctx context.Context, assetURL string) error
}

// UserService encapsulates account and profile business logic.
type UserService struct {
	repo       *repository.UserRepository
	followRepo *repository.FollowRepository
	postRepo   *repository.PostRepository
	uploader   ImageUploader
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, followRepo *repository.FollowRepository, postRepo *repository.PostRepository, uploader ImageUploader) *UserService {
	return &UserService{
		repo:       repo,
		followRepo: followRepo,
		postRepo:   postRepo,
		uploader:   uploader,
	}
}

// RegisterUser creates a new account after validating and hashing the
// password. Username and email are stored lowercased so uniqueness is
// case-insensitive.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" {
		return nil, fmt.Errorf("missing required user fields")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	existing, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %v", err)
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Registration with existing email or username")
		return nil, fmt.Errorf("user already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:        username,
		Email:           email,
		HashedPassword:  string(hashed),
		Role:            "user",
		LastActive:      time.Now(),
		ActivityHeatmap: []models.HeatmapEntry{},
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies credentials and returns the user. It also
// refreshes the posting streak, since logging in counts as activity for
// the day-distance calculation.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		logrus.WithField("email", email).Warn("Login with unknown email")
		return nil, fmt.Errorf("invalid email")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Login with wrong password")
		return nil, fmt.Errorf("invalid password")
	}

	user.UpdateStreak(time.Now())
	if err := s.repo.UpdateUser(ctx, user.ID, bson.M{
		"streak":     user.Streak,
		"lastActive": user.LastActive,
	}); err != nil {
		logrus.WithError(err).Warn("Failed to persist streak on login")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// UserExists reports whether the given hex ID refers to an existing user.
func (s *UserService) UserExists(ctx context.Context, id string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid user ID: %v", err)
	}
	return s.repo.UserExists(ctx, objID)
}

// UpdateProfileInput carries the mutable profile fields. Password fields
// must be provided as a pair.
type UpdateProfileInput struct {
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	Avatar          string `json:"avatar"`
	CoverImg        string `json:"coverImg"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// normalizedUsernameChange lowercases and trims a submitted username and
// reports whether it actually differs from the current one. Case-only
// variants of the current name are not a change.
func normalizedUsernameChange(current, submitted string) (string, bool) {
	username := strings.ToLower(strings.TrimSpace(submitted))
	if username == "" || username == current {
		return "", false
	}
	return username, true
}

// UpdateProfile applies profile changes for a user. Setting a new password
// stamps passwordChangedAt, which invalidates every session token issued
// earlier.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	update := bson.M{}

	if username, changed := normalizedUsernameChange(user.Username, input.Username); changed {
		if existing, _ := s.repo.GetUserByUsername(ctx, username); existing != nil {
			return nil, fmt.Errorf("username is already taken")
		}
		update["username"] = username
		user.Username = username
	}

	if (input.NewPassword == "") != (input.CurrentPassword == "") {
		return nil, fmt.Errorf("please provide both current password and new password")
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.CurrentPassword)); err != nil {
			return nil, fmt.Errorf("current password is incorrect")
		}
		if len(input.NewPassword) < 6 {
			return nil, fmt.Errorf("password must be at least 6 characters long")
		}
		if input.NewPassword == input.CurrentPassword {
			return nil, fmt.Errorf("password must be a new password")
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %v", err)
		}

		update["password"] = string(hashed)
		update["passwordChangedAt"] = time.Now()
	}

	if input.Avatar != "" {
		url, err := s.replaceImage(ctx, user.Avatar, input.Avatar)
		if err != nil {
			return nil, err
		}
		update["avatar"] = url
		user.Avatar = url
	}

	if input.CoverImg != "" {
		url, err := s.replaceImage(ctx, user.CoverImg, input.CoverImg)
		if err != nil {
			return nil, err
		}
		update["coverImg"] = url
		user.CoverImg = url
	}

	if input.Bio != "" {
		update["bio"] = input.Bio
		user.Bio = input.Bio
	}

	if len(update) > 0 {
		if err := s.repo.UpdateUser(ctx, userID, update); err != nil {
			return nil, fmt.Errorf("failed to update profile: %v", err)
		}
	}

	logrus.WithField("userID", userID.Hex()).Info("Profile updated successfully")
	return user, nil
}

// replaceImage uploads the new image and destroys the previous asset.
// Without a configured uploader the raw value is stored as-is.
func (s *UserService) replaceImage(ctx context.Context, oldURL, source string) (string, error) {
	if s.uploader == nil {
		logrus.Warn("Image hosting not configured, storing image reference unchanged")
		return source, nil
	}

	if oldURL != "" {
		if err := s.uploader.Destroy(ctx, oldURL); err != nil {
			logrus.WithError(err).Warn("Failed to destroy previous image")
		}
	}

	url, err := s.uploader.Upload(ctx, source)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	return url, nil
}

// GetUsers returns a page of public profiles, optionally filtered by a
// username search.
func (s *UserService) GetUsers(ctx context.Context, search string, page, limit int64) ([]models.PublicUser, int64, error) {
	users, total, err := s.repo.GetUsers(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]models.PublicUser, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	return profiles, total, nil
}

// UserProfile is the full profile page payload.
type UserProfile struct {
	models.PublicUser
	IsFollowing bool `json:"isFollowing"`
	IsMe        bool `json:"isMe"`
}

// GetUserProfile returns a user's public profile from the viewer's
// perspective, plus the user's five most recent posts.
func (s *UserService) GetUserProfile(ctx context.Context, viewerID primitive.ObjectID, id string) (*UserProfile, []models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, nil, fmt.Errorf("user not found")
	}

	follow, err := s.followRepo.FindFollow(ctx, viewerID, objID)
	if err != nil {
		return nil, nil, err
	}

	recentPosts, err := s.postRepo.GetRecentByAuthor(ctx, objID, 5)
	if err != nil {
		return nil, nil, err
	}

	profile := &UserProfile{
		PublicUser:  user.Public(),
		IsFollowing: follow != nil,
		IsMe:        viewerID == objID,
	}
	return profile, recentPosts, nil
}
