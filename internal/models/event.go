package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event lifecycle statuses
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// Attendee registration statuses
const (
	AttendeeRegistered = "registered"
	AttendeeAttended   = "attended"
	AttendeeCancelled  = "cancelled"
)

// Attendee is a user's registration record on an event
type Attendee struct {
	UserID       uint      `json:"user_id" bson:"user_id"`
	Status       string    `json:"status" bson:"status"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
}

// EventLocation describes where an event takes place
type EventLocation struct {
	Name      string `json:"name" bson:"name"`
	Address   string `json:"address,omitempty" bson:"address,omitempty"`
	City      string `json:"city,omitempty" bson:"city,omitempty"`
	IsOnline  bool   `json:"is_online" bson:"is_online"`
	OnlineURL string `json:"online_url,omitempty" bson:"online_url,omitempty"`
}

// Event represents a community event stored in MongoDB
type Event struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title                string             `json:"title" bson:"title"`
	Description          string             `json:"description" bson:"description"`
	OrganizerID          uint               `json:"organizer_id" bson:"organizer_id"`
	Category             string             `json:"category" bson:"category"`
	StartDate            time.Time          `json:"start_date" bson:"start_date"`
	EndDate              time.Time          `json:"end_date" bson:"end_date"`
	Location             EventLocation      `json:"location" bson:"location"`
	Capacity             *int               `json:"capacity,omitempty" bson:"capacity,omitempty"`
	RegistrationDeadline *time.Time         `json:"registration_deadline,omitempty" bson:"registration_deadline,omitempty"`
	Attendees            []Attendee         `json:"attendees" bson:"attendees"`
	IsOfficial           bool               `json:"is_official" bson:"is_official"`
	Status               string             `json:"status" bson:"status"`
	Tags                 []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
}

// AttendeeCount returns the number of non-cancelled registrations
func (e *Event) AttendeeCount() int {
	n := 0
	for _, a := range e.Attendees {
		if a.Status != AttendeeCancelled {
			n++
		}
	}
	return n
}

// IsFull reports whether the event reached its capacity. Events without a
// capacity are never full.
func (e *Event) IsFull() bool {
	if e.Capacity == nil {
		return false
	}
	return e.AttendeeCount() >= *e.Capacity
}

// ActiveRegistration returns the user's non-cancelled registration, if any
func (e *Event) ActiveRegistration(userID uint) *Attendee {
	for i := range e.Attendees {
		if e.Attendees[i].UserID == userID && e.Attendees[i].Status != AttendeeCancelled {
			return &e.Attendees[i]
		}
	}
	return nil
}

// CreateEventRequest defines the request body for creating an event
type CreateEventRequest struct {
	Title                string        `json:"title" validate:"required,max=200"`
	Description          string        `json:"description" validate:"required,max=5000"`
	Category             string        `json:"category" validate:"required,oneof=community sports culture education health government environment other"`
	StartDate            time.Time     `json:"start_date" validate:"required"`
	EndDate              time.Time     `json:"end_date" validate:"required,gtfield=StartDate"`
	Location             EventLocation `json:"location"`
	Capacity             *int          `json:"capacity,omitempty" validate:"omitempty,min=1"`
	RegistrationDeadline *time.Time    `json:"registration_deadline,omitempty"`
	Tags                 []string      `json:"tags,omitempty"`
	Status               string        `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

// UpdateEventRequest defines the request body for updating an event
type UpdateEventRequest struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string        `json:"category,omitempty" validate:"omitempty,oneof=community sports culture education health government environment other"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	Location    *EventLocation `json:"location,omitempty"`
	Capacity    *int           `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Status      *string        `json:"status,omitempty" validate:"omitempty,oneof=draft published cancelled completed"`
}
