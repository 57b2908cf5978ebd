package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllowedCategories enumerates the valid post categories.
var AllowedCategories = map[string]bool{
	"goal":       true,
	"task":       true,
	"reflection": true,
}

// AllowedStatuses enumerates the valid post statuses.
var AllowedStatuses = map[string]bool{
	"pending":   true,
	"completed": true,
	"cancelled": true,
}

// Post is a single entry on a user's timeline. Posts are archived rather
// than deleted.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author   primitive.ObjectID `bson:"author" json:"author"`
	Content  string             `bson:"content" json:"content"`
	Category string             `bson:"category" json:"category"`
	Status   string             `bson:"status" json:"status"`
	Images   []string           `bson:"images" json:"images"`
	Tags     []string           `bson:"tags" json:"tags"`

	// Denormalized counters, maintained by the interaction and comment
	// services.
	LikesCount     int `bson:"likesCount" json:"likesCount"`
	CommentsCount  int `bson:"commentsCount" json:"commentsCount"`
	BookmarksCount int `bson:"bookmarksCount" json:"bookmarksCount"`

	CompletedAt time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	IsArchived  bool      `bson:"isArchived" json:"isArchived"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PostView is a post with its author projection attached, the shape
// returned by the list and feed endpoints.
type PostView struct {
	Post
	Author BriefUser `json:"author"`
}
