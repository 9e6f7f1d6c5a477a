package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/:id/mark-read", h.MarkAsRead)
	g.POST("/notifications/mark-all-read", h.MarkAllAsRead)
}

// GetNotifications returns the current user's unread notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	notifications, err := h.notifications.ListUnread(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.UnreadCount(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks all unread notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	count, err := h.notifications.MarkAllRead(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "All notifications marked as read",
		"updated_count": count,
	})
}
