package middleware

import (
	"net/http"

	"github.com/civic-connect/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// RequireRoles rejects requests whose actor does not hold one of the given
// roles. It must run after JWTAuthMiddleware.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient role for this action")
			}
			return next(c)
		}
	}
}

// RequireModerator is shorthand for the staff/admin gate on moderation
// routes
func RequireModerator() echo.MiddlewareFunc {
	return RequireRoles(models.RoleStaff, models.RoleAdmin)
}
