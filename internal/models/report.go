package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reportable content types
const (
	ContentTypePost    = "post"
	ContentTypeComment = "comment"
	ContentTypeEvent   = "event"
	ContentTypeUser    = "user"
)

// ValidContentType reports whether t names a reportable entity type
func ValidContentType(t string) bool {
	switch t {
	case ContentTypePost, ContentTypeComment, ContentTypeEvent, ContentTypeUser:
		return true
	}
	return false
}

// Report statuses. Resolved and dismissed are terminal.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewing = "reviewing"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report priorities
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Moderation actions recorded on a resolution
const (
	ActionNone           = "none"
	ActionWarning        = "warning"
	ActionContentRemoved = "content_removed"
	ActionUserSuspended  = "user_suspended"
	ActionUserBanned     = "user_banned"
)

// ValidModerationAction reports whether a is a known resolution action
func ValidModerationAction(a string) bool {
	switch a {
	case ActionNone, ActionWarning, ActionContentRemoved, ActionUserSuspended, ActionUserBanned:
		return true
	}
	return false
}

// Resolution is the terminal outcome recorded on a report
type Resolution struct {
	Action     string    `json:"action" bson:"action"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ResolvedBy uint      `json:"resolved_by" bson:"resolved_by"`
	ResolvedAt time.Time `json:"resolved_at" bson:"resolved_at"`
}

// Report represents a user-filed flag against content or a user (MongoDB).
// At most one report exists per (reporter, content_type, content_id), for
// all time. Reports are never deleted.
type Report struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ReporterID  uint               `json:"reporter_id" bson:"reporter_id"`
	ContentType string             `json:"content_type" bson:"content_type"`
	ContentID   string             `json:"content_id" bson:"content_id"`
	Reason      string             `json:"reason" bson:"reason"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      string             `json:"status" bson:"status"`
	Priority    string             `json:"priority" bson:"priority"`
	Resolution  *Resolution        `json:"resolution,omitempty" bson:"resolution,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether the report reached a terminal status
func (r *Report) IsTerminal() bool {
	return r.Status == ReportStatusResolved || r.Status == ReportStatusDismissed
}

// CreateReportRequest defines the request body for filing a report
type CreateReportRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=post comment event user"`
	ContentID   string `json:"content_id" validate:"required"`
	Reason      string `json:"reason" validate:"required,oneof=spam harassment hate_speech misinformation inappropriate copyright privacy_violation other"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// ResolveReportRequest defines the moderator request body for resolving
type ResolveReportRequest struct {
	Action string `json:"action" validate:"required,oneof=none warning content_removed user_suspended user_banned"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// DismissReportRequest defines the moderator request body for dismissing
type DismissReportRequest struct {
	Notes string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ReportFilter narrows report listings
type ReportFilter struct {
	Status      string
	ContentType string
	Priority    string
	Reason      string
}

// ReportDetail pairs a report with its resolved target. Content is nil when
// the underlying entity no longer exists.
type ReportDetail struct {
	Report  *Report     `json:"report"`
	Content interface{} `json:"content"`
}

// ModerationStats is the read-side aggregation over reports
type ModerationStats struct {
	Totals struct {
		Pending   int64 `json:"pending"`
		Resolved  int64 `json:"resolved"`
		Dismissed int64 `json:"dismissed"`
	} `json:"totals"`
	ByReason      map[string]int64 `json:"byReason"`
	ByContentType map[string]int64 `json:"byContentType"`
}
