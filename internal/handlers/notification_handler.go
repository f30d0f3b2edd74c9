package handlers

import (
	"net/http"
	"strconv"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes a user's notification inbox
type NotificationHandler struct {
	notifications repositories.NotificationRepository
}

func NewNotificationHandler(notifications repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetNotifications lists the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page, limit := parsePageLimit(c)
	unreadOnly := c.QueryParam("unread_only") == "true"
	recipientID := getUserIDFromContext(c)

	notifications, total, err := h.notifications.ListByRecipient(recipientID, page, limit, unreadOnly)
	if err != nil {
		return httpError(err)
	}

	unread, err := h.notifications.GetUnreadCount(recipientID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"data":         notifications,
		"unread_count": unread,
		"pagination":   models.NewPagination(page, limit, total),
	})
}

// GetUnreadCount returns the caller's unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	unread, err := h.notifications.GetUnreadCount(getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unread_count": unread}})
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAsRead(id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notifications.MarkAllAsRead(getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "All notifications marked as read"})
}

// DeleteNotification removes a notification from the caller's inbox
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Notification deleted"})
}

func parseNotificationID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification id")
	}
	return uint(id), nil
}
