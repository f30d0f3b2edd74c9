package handlers

import (
	"errors"
	"net/http"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// getClaims returns the authenticated actor's claims, or nil
func getClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}

// getUserIDFromContext returns the authenticated user's ID, 0 if absent
func getUserIDFromContext(c echo.Context) uint {
	if claims := getClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// getRoleFromContext returns the authenticated user's role
func getRoleFromContext(c echo.Context) string {
	if claims := getClaims(c); claims != nil {
		return claims.Role
	}
	return ""
}

// isModerator reports whether the actor holds staff or admin rights
func isModerator(c echo.Context) bool {
	role := getRoleFromContext(c)
	return role == models.RoleStaff || role == models.RoleAdmin
}

// httpError maps service and repository errors onto HTTP responses without
// leaking storage internals
func httpError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id format")
	case errors.Is(err, repositories.ErrDuplicateReport):
		return echo.NewHTTPError(http.StatusConflict, "You have already reported this content")
	case errors.Is(err, repositories.ErrEventFull):
		return echo.NewHTTPError(http.StatusConflict, "Event is at full capacity")
	case errors.Is(err, repositories.ErrAlreadyRegistered):
		return echo.NewHTTPError(http.StatusConflict, "Already registered for this event")
	case errors.Is(err, repositories.ErrRegistrationClosed):
		return echo.NewHTTPError(http.StatusBadRequest, "Event is not open for registration")
	case errors.Is(err, repositories.ErrNotRegistered):
		return echo.NewHTTPError(http.StatusBadRequest, "Not registered for this event")
	case errors.Is(err, services.ErrInvalidTarget):
		return echo.NewHTTPError(http.StatusBadRequest, "Report target does not exist")
	case errors.Is(err, services.ErrAlreadyResolved):
		return echo.NewHTTPError(http.StatusConflict, "Report already resolved or dismissed")
	case errors.Is(err, services.ErrInvalidAction):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid moderation action")
	case errors.Is(err, services.ErrSelfVote):
		return echo.NewHTTPError(http.StatusForbidden, "Voting on your own content is not allowed")
	case errors.Is(err, services.ErrPartialFailure):
		return echo.NewHTTPError(http.StatusInternalServerError, "Moderation action applied but report update failed; retry the resolution")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
