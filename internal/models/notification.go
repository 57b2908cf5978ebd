package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification tells a user that someone interacted with them. Never
// created when recipient and sender are the same user.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Type      string             `bson:"type" json:"type"`
	Post      primitive.ObjectID `bson:"post,omitempty" json:"post,omitempty"`
	IsRead    bool               `bson:"isRead" json:"isRead"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NotificationPost is the post excerpt attached to a notification.
type NotificationPost struct {
	ID      primitive.ObjectID `json:"id"`
	Content string             `json:"content"`
}

// NotificationView is a notification with sender and post attached.
type NotificationView struct {
	Notification
	Sender BriefUser         `json:"sender"`
	Post   *NotificationPost `json:"post,omitempty"`
}
