package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post lifecycle statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
	PostStatusRejected  = "rejected"
)

// Post represents an announcement, news item or discussion stored in MongoDB
type Post struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Content         string             `json:"content" bson:"content"`
	Excerpt         string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	AuthorID        uint               `json:"author_id" bson:"author_id"`
	Category        string             `json:"category" bson:"category"`
	Tags            []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Status          string             `json:"status" bson:"status"`
	Visibility      string             `json:"visibility" bson:"visibility"`
	IsOfficial      bool               `json:"is_official" bson:"is_official"`
	IsPinned        bool               `json:"is_pinned" bson:"is_pinned"`
	Votes           Votes              `json:"votes" bson:"votes"`
	ViewCount       int64              `json:"view_count" bson:"view_count"`
	CommentCount    int64              `json:"comment_count" bson:"comment_count"`
	PublishedAt     *time.Time         `json:"published_at,omitempty" bson:"published_at,omitempty"`
	ExpiresAt       *time.Time         `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	ModerationNotes string             `json:"moderation_notes,omitempty" bson:"moderation_notes,omitempty"`
	ModeratedBy     uint               `json:"moderated_by,omitempty" bson:"moderated_by,omitempty"`
	ModeratedAt     *time.Time         `json:"moderated_at,omitempty" bson:"moderated_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// VoteScore returns the post's net vote score
func (p *Post) VoteScore() int {
	return p.Votes.Score()
}

// Excerpted returns the stored excerpt, deriving one from the content when
// none was provided
func (p *Post) Excerpted() string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	// Cut on a rune boundary so multi-byte characters stay intact
	runes := []rune(p.Content)
	if len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return p.Content
}

// CreatePostRequest defines the request body for creating a post
type CreatePostRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required,max=10000"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Category   string   `json:"category" validate:"required,oneof=news announcement discussion alert event"`
	Tags       []string `json:"tags,omitempty"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=draft pending published archived"`
	Visibility string   `json:"visibility,omitempty" validate:"omitempty,oneof=public registered staff"`
}

// UpdatePostRequest defines the request body for updating a post
type UpdatePostRequest struct {
	Title      *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Content    *string  `json:"content,omitempty" validate:"omitempty,max=10000"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,oneof=news announcement discussion alert event"`
	Tags       []string `json:"tags,omitempty"`
	Status     *string  `json:"status,omitempty" validate:"omitempty,oneof=draft pending published archived"`
	Visibility *string  `json:"visibility,omitempty" validate:"omitempty,oneof=public registered staff"`
}

// PostFilter narrows post listings
type PostFilter struct {
	Category string
	Status   string
	AuthorID uint
	Tag      string
}
