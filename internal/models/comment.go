package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment lifecycle statuses
const (
	CommentStatusActive  = "active"
	CommentStatusHidden  = "hidden"
	CommentStatusDeleted = "deleted"
	CommentStatusFlagged = "flagged"
)

// Comment represents a comment on a post stored in MongoDB. One level of
// nesting is modeled: replies to replies collapse to the top-level parent.
type Comment struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Content         string              `json:"content" bson:"content"`
	AuthorID        uint                `json:"author_id" bson:"author_id"`
	PostID          primitive.ObjectID  `json:"post_id" bson:"post_id"`
	ParentCommentID *primitive.ObjectID `json:"parent_comment_id,omitempty" bson:"parent_comment_id,omitempty"`
	Status          string              `json:"status" bson:"status"`
	Votes           Votes               `json:"votes" bson:"votes"`
	IsEdited        bool                `json:"is_edited" bson:"is_edited"`
	EditedAt        *time.Time          `json:"edited_at,omitempty" bson:"edited_at,omitempty"`
	ModerationNotes string              `json:"moderation_notes,omitempty" bson:"moderation_notes,omitempty"`
	ModeratedBy     uint                `json:"moderated_by,omitempty" bson:"moderated_by,omitempty"`
	ModeratedAt     *time.Time          `json:"moderated_at,omitempty" bson:"moderated_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

// VoteScore returns the comment's net vote score
func (c *Comment) VoteScore() int {
	return c.Votes.Score()
}

// CommentWithReplies is the listing shape for top-level comments
type CommentWithReplies struct {
	Comment
	Replies []Comment `json:"replies"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,max=2000"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
