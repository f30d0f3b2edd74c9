package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/internal/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	users     repositories.UserRepository
	notifier  *services.NotificationService
	jwtSecret string
}

func NewAuthHandler(users repositories.UserRepository, notifier *services.NotificationService, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, notifier: notifier, jwtSecret: jwtSecret}
}

// Register creates a new citizen account
func (h *AuthHandler) Register(c echo.Context) error {
	req := new(models.RegisterRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if _, err := h.users.GetUserByEmail(req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleCitizen,
	}

	if err := h.users.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	// Welcome notification, best effort
	go func(id uint) {
		h.notifier.Notify(context.Background(), id, models.NotificationData{
			Type:    models.NotificationWelcome,
			Title:   "Welcome to CivicConnect",
			Message: "Your account has been created. Subscribe to categories to stay informed.",
		})
	}(user.ID)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": user})
}

// Login authenticates a user and issues a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	req := new(models.LoginRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "Account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to sign token")
	}

	if err := h.users.UpdateLastLogin(user.ID); err != nil {
		c.Logger().Warnf("failed to record last login for user %d: %v", user.ID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"token": signed,
			"user":  user,
		},
	})
}
