package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interaction types.
const (
	InteractionLike     = "like"
	InteractionBookmark = "bookmark"
)

// Interaction is a like or bookmark linking a user to a post. A unique
// index on (user, post, type) guarantees at most one of each kind.
type Interaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// LikeView is a like with the liking user's public profile attached.
type LikeView struct {
	ID        primitive.ObjectID `json:"id"`
	User      PublicUser         `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
}
