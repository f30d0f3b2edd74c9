package handlers

import (
	"net/http"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// EventHandler handles community events and registrations
type EventHandler struct {
	events repositories.EventRepository
}

func NewEventHandler(events repositories.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

// CreateEvent creates an event organized by the authenticated user. Events
// created by staff or admins are flagged as official.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	req := new(models.CreateEventRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.EventStatusPublished
	}

	event := &models.Event{
		Title:                req.Title,
		Description:          req.Description,
		OrganizerID:          getUserIDFromContext(c),
		Category:             req.Category,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             req.Location,
		Capacity:             req.Capacity,
		RegistrationDeadline: req.RegistrationDeadline,
		Tags:                 req.Tags,
		IsOfficial:           isModerator(c),
		Status:               status,
	}

	if err := h.events.CreateEvent(c.Request().Context(), event); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": event})
}

// GetEvents lists events with optional filters and pagination
func (h *EventHandler) GetEvents(c echo.Context) error {
	page, limit := parsePageLimit(c)

	status := c.QueryParam("status")
	if !isModerator(c) {
		status = models.EventStatusPublished
	}
	upcomingOnly := c.QueryParam("upcoming") == "true"

	skip := int64((page - 1) * limit)
	events, total, err := h.events.ListEvents(c.Request().Context(), c.QueryParam("category"), status, upcomingOnly, skip, int64(limit))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       events,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetEvent returns a single event
func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.events.GetEventByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": event})
}

// UpdateEvent edits an event owned by the caller (or any event for moderators)
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id := c.Param("id")

	req := new(models.UpdateEventRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	event, err := h.events.GetEventByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if event.OrganizerID != getUserIDFromContext(c) && !isModerator(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own events")
	}

	// The effective date pair must stay ordered even when only one side moves
	start, end := event.StartDate, event.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !end.After(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "Event end date must be after its start date")
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.StartDate != nil {
		set["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		set["end_date"] = *req.EndDate
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Capacity != nil {
		set["capacity"] = *req.Capacity
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if len(set) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": event})
	}

	if err := h.events.UpdateEvent(c.Request().Context(), id, set); err != nil {
		return httpError(err)
	}

	updated, err := h.events.GetEventByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// DeleteEvent removes an event owned by the caller (or any event for moderators)
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id := c.Param("id")

	event, err := h.events.GetEventByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if event.OrganizerID != getUserIDFromContext(c) && !isModerator(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own events")
	}

	if err := h.events.DeleteEvent(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Event deleted"})
}

// RegisterForEvent registers the caller as an attendee
func (h *EventHandler) RegisterForEvent(c echo.Context) error {
	id := c.Param("id")

	if err := h.events.Register(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}

	event, err := h.events.GetEventByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"event_id":       event.ID.Hex(),
			"attendee_count": event.AttendeeCount(),
		},
	})
}

// CancelRegistration withdraws the caller's registration
func (h *EventHandler) CancelRegistration(c echo.Context) error {
	id := c.Param("id")

	if err := h.events.CancelRegistration(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Registration cancelled"})
}

// GetMyEvents lists events the caller is registered for
func (h *EventHandler) GetMyEvents(c echo.Context) error {
	page, limit := parsePageLimit(c)

	skip := int64((page - 1) * limit)
	events, total, err := h.events.ListByAttendee(c.Request().Context(), getUserIDFromContext(c), skip, int64(limit))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       events,
		"pagination": models.NewPagination(page, limit, total),
	})
}
