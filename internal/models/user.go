package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Roles a user can hold. Exactly one applies at a time.
const (
	RoleCitizen = "citizen"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// User represents a citizen, staff member or administrator (PostgreSQL)
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Email       string     `json:"email" gorm:"uniqueIndex"`
	Password    string     `json:"-"` // bcrypt hash, never serialized
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role" gorm:"type:varchar(20);default:'citizen';index"`
	Phone       string     `json:"phone,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"default:true;index"`
	BannedAt    *time.Time `json:"banned_at,omitempty"`
	NotifyInApp bool       `json:"notify_in_app" gorm:"default:true"`
	NotifyEmail bool       `json:"notify_email" gorm:"default:true"`
	NotifySMS   bool       `json:"notify_sms" gorm:"default:false"`
	Categories  []string   `json:"categories" gorm:"type:jsonb;serializer:json"`
	DeviceToken string     `json:"-"` // FCM registration token, if the user has one
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsModerator reports whether the user may resolve reports
func (u *User) IsModerator() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

// FullName returns the display name used in notifications
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserCompact is the trimmed user shape embedded in API responses
type UserCompact struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	Role      string `json:"role"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		Role:      u.Role,
	}
}

// RegisterRequest defines the request body for registration
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
}

// LoginRequest defines the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePreferencesRequest defines the request body for notification preferences
type UpdatePreferencesRequest struct {
	NotifyInApp *bool    `json:"notify_in_app,omitempty"`
	NotifyEmail *bool    `json:"notify_email,omitempty"`
	NotifySMS   *bool    `json:"notify_sms,omitempty"`
	Categories  []string `json:"categories,omitempty" validate:"omitempty,dive,oneof=news events discussions alerts announcements"`
	DeviceToken *string  `json:"device_token,omitempty"`
}

// UpdateRoleRequest defines the admin request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=citizen staff admin"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
