package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to a post. Replies reference their parent comment;
// nesting is one level deep in practice.
type Comment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Post          primitive.ObjectID `bson:"post" json:"post"`
	Author        primitive.ObjectID `bson:"author" json:"author"`
	Content       string             `bson:"content" json:"content"`
	ParentComment primitive.ObjectID `bson:"parentComment,omitempty" json:"parentComment,omitempty"`
	LikesCount    int                `bson:"likesCount" json:"likesCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CommentView is a comment with its author attached.
type CommentView struct {
	Comment
	Author BriefUser `json:"author"`
}

// CommentThread is a top-level comment together with its replies.
type CommentThread struct {
	CommentView
	Replies []CommentView `json:"replies"`
}
