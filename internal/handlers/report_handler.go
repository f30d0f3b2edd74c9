package handlers

import (
	"net/http"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReportHandler handles the content report and moderation workflow
type ReportHandler struct {
	moderation *services.ModerationService
}

func NewReportHandler(moderation *services.ModerationService) *ReportHandler {
	return &ReportHandler{moderation: moderation}
}

// CreateReport files a report against a piece of content
func (h *ReportHandler) CreateReport(c echo.Context) error {
	req := new(models.CreateReportRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	report, err := h.moderation.FileReport(c.Request().Context(), getUserIDFromContext(c), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": report})
}

// GetReports lists reports for the moderation queue
func (h *ReportHandler) GetReports(c echo.Context) error {
	page, limit := parsePageLimit(c)

	filter := models.ReportFilter{
		Status:      c.QueryParam("status"),
		ContentType: c.QueryParam("content_type"),
		Priority:    c.QueryParam("priority"),
		Reason:      c.QueryParam("reason"),
	}

	reports, pagination, err := h.moderation.ListReports(c.Request().Context(), filter, page, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       reports,
		"pagination": pagination,
	})
}

// GetReport returns a report together with the reported content
func (h *ReportHandler) GetReport(c echo.Context) error {
	detail, err := h.moderation.GetReportDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": detail})
}

// ReviewReport marks a report as under review
func (h *ReportHandler) ReviewReport(c echo.Context) error {
	report, err := h.moderation.MarkReviewing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

// ResolveReport applies a moderation action and closes the report
func (h *ReportHandler) ResolveReport(c echo.Context) error {
	req := new(models.ResolveReportRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	report, err := h.moderation.Resolve(c.Request().Context(), c.Param("id"), getUserIDFromContext(c), req.Action, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

// DismissReport closes a report without taking action
func (h *ReportHandler) DismissReport(c echo.Context) error {
	req := new(models.DismissReportRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	report, err := h.moderation.Dismiss(c.Request().Context(), c.Param("id"), getUserIDFromContext(c), req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

// GetModerationStats returns queue counters grouped by status, reason and type
func (h *ReportHandler) GetModerationStats(c echo.Context) error {
	stats, err := h.moderation.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}
