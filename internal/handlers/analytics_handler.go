package handlers

import (
	"net/http"

	"github.com/civic-connect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes platform counters for the staff dashboard
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetDashboard returns aggregate user, content and moderation counters
func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	summary, err := h.analytics.Summary(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": summary})
}
