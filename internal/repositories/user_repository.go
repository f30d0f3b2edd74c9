package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	SetActive(id uint, active bool) error
	Ban(id uint) error
	FindActiveSubscribers(category string) ([]models.User, error)
	ListUsers(page, limit int) ([]models.User, int64, error)
	CountUsers(onlyActive bool) (int64, error)
	UpdateLastLogin(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves the full user record
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SetActive flips the user's active flag
func (r *PostgresUserRepository) SetActive(id uint, active bool) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ban deactivates the user and stamps the ban time. Observable effect is the
// same as a suspension; the stamp keeps the distinction durable.
func (r *PostgresUserRepository) Ban(id uint) error {
	now := time.Now()
	res := r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "banned_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveSubscribers returns all active users subscribed to the category.
// Resolved at call time; there is no durable topic subscription.
func (r *PostgresUserRepository) FindActiveSubscribers(category string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("is_active = ? AND categories @> ?", true, subscriberNeedle(category)).
		Find(&users).Error
	return users, err
}

// subscriberNeedle builds the jsonb containment operand for a category
// lookup. Marshalling keeps quotes and backslashes in the category escaped.
func subscriberNeedle(category string) string {
	needle, _ := json.Marshal([]string{category})
	return string(needle)
}

// ListUsers returns a page of users, newest first
func (r *PostgresUserRepository) ListUsers(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// CountUsers counts users, optionally only active ones
func (r *PostgresUserRepository) CountUsers(onlyActive bool) (int64, error) {
	var count int64
	q := r.db.Model(&models.User{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Count(&count).Error
	return count, err
}

// UpdateLastLogin stamps the user's last login time
func (r *PostgresUserRepository) UpdateLastLogin(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", time.Now()).Error
}
