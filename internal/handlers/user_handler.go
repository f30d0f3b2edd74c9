package handlers

import (
	"net/http"
	"strconv"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile, preference and admin user management
type UserHandler struct {
	users repositories.UserRepository
}

func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.users.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// UpdatePreferences updates notification channels, category subscriptions
// and the push device token
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	req := new(models.UpdatePreferencesRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.users.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}

	if req.NotifyInApp != nil {
		user.NotifyInApp = *req.NotifyInApp
	}
	if req.NotifyEmail != nil {
		user.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifySMS != nil {
		user.NotifySMS = *req.NotifySMS
	}
	if req.Categories != nil {
		user.Categories = req.Categories
	}
	if req.DeviceToken != nil {
		user.DeviceToken = *req.DeviceToken
	}

	if err := h.users.UpdateUser(user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// GetUsers lists all users (admin)
func (h *UserHandler) GetUsers(c echo.Context) error {
	page, limit := parsePageLimit(c)

	users, total, err := h.users.ListUsers(page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       users,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// UpdateUserRole changes a user's role (admin)
func (h *UserHandler) UpdateUserRole(c echo.Context) error {
	id, err := parseUserParam(c)
	if err != nil {
		return err
	}

	req := new(models.UpdateRoleRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.users.GetUserByID(id)
	if err != nil {
		return httpError(err)
	}

	user.Role = req.Role
	if err := h.users.UpdateUser(user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// SetUserActive activates or deactivates an account (admin)
func (h *UserHandler) SetUserActive(c echo.Context) error {
	id, err := parseUserParam(c)
	if err != nil {
		return err
	}

	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Active == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Field 'active' is required")
	}

	if err := h.users.SetActive(id, *req.Active); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User status updated"})
}

func parseUserParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	return uint(id), nil
}
