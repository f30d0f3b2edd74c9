package models

import (
	"time"
)

// Notification types
const (
	NotificationNewPost          = "new_post"
	NotificationNewComment       = "new_comment"
	NotificationCommentReply     = "comment_reply"
	NotificationEventReminder    = "event_reminder"
	NotificationEventUpdate      = "event_update"
	NotificationSystemAlert      = "system_alert"
	NotificationModerationAction = "moderation_action"
	NotificationWelcome          = "welcome"
	NotificationAnnouncement     = "announcement"
)

// Delivery methods
const (
	MethodInApp = "in_app"
	MethodEmail = "email"
	MethodSMS   = "sms"
)

// Delivery statuses
const (
	DeliveryPending   = "pending"
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// Notification priorities
const (
	NotifyPriorityLow    = "low"
	NotifyPriorityNormal = "normal"
	NotifyPriorityHigh   = "high"
	NotifyPriorityUrgent = "urgent"
)

// DeliveryMethod tracks the state of one delivery channel for a notification
type DeliveryMethod struct {
	Method string     `json:"method"`
	Status string     `json:"status"`
	SentAt *time.Time `json:"sent_at,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	RecipientID     uint             `json:"recipient_id" gorm:"index"`
	Type            string           `json:"type" gorm:"size:30;index"`
	Title           string           `json:"title" gorm:"size:200"`
	Message         string           `json:"message" gorm:"size:1000"`
	EntityType      string           `json:"entity_type,omitempty" gorm:"size:20"`
	EntityID        string           `json:"entity_id,omitempty"`
	URL             string           `json:"url,omitempty"`
	DeliveryMethods []DeliveryMethod `json:"delivery_methods" gorm:"type:jsonb;serializer:json"`
	Priority        string           `json:"priority" gorm:"size:10;default:'normal'"`
	IsRead          bool             `json:"is_read" gorm:"default:false;index"`
	ReadAt          *time.Time       `json:"read_at,omitempty"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty" gorm:"index"`
	CreatedAt       time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// MethodState returns the delivery record for the given method, or nil
func (n *Notification) MethodState(method string) *DeliveryMethod {
	for i := range n.DeliveryMethods {
		if n.DeliveryMethods[i].Method == method {
			return &n.DeliveryMethods[i]
		}
	}
	return nil
}

// NotificationData is the payload handed to the dispatcher
type NotificationData struct {
	Type       string `json:"type" validate:"required"`
	Title      string `json:"title" validate:"required,max=200"`
	Message    string `json:"message" validate:"required,max=1000"`
	EntityType string `json:"entity_type,omitempty" validate:"omitempty,oneof=post comment event user"`
	EntityID   string `json:"entity_id,omitempty"`
	URL        string `json:"url,omitempty"`
	Priority   string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
}
