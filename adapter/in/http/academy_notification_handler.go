package http

import (
	"strconv"

	"academy_server/core/domain"
	"academy_server/core/service/notification"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles instructor notification requests.
type NotificationHandler struct {
	notificationService *notification.Service
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// Register registers notification routes.
func (h *NotificationHandler) Register(router fiber.Router) {
	notifications := router.Group("/notifications")

	notifications.Get("/", h.ListNotifications)
	notifications.Get("/unread-count", h.GetUnreadCount)
	notifications.Post("/mark-read", h.MarkAsRead)
}

// =============================================================================
// Handlers
// =============================================================================

// ListNotifications returns a list of notifications for the instructor.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	instructorID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusUnauthorized, "authentication required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	filter := &domain.NotificationFilter{
		Limit:  limit,
		Offset: offset,
	}

	if unreadOnly := QueryBool(c, "unread_only"); unreadOnly != nil && *unreadOnly {
		isRead := false
		filter.IsRead = &isRead
	}
	if notifType := c.Query("type"); notifType != "" {
		t := domain.NotificationType(notifType)
		filter.Type = &t
	}

	notifications, total, err := h.notificationService.List(c.Context(), instructorID, filter)
	if err != nil {
		return InternalErrorResponse(c, err, "list notifications")
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetUnreadCount returns the count of unread notifications.
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	instructorID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusUnauthorized, "authentication required")
	}

	count, err := h.notificationService.CountUnread(c.Context(), instructorID)
	if err != nil {
		return InternalErrorResponse(c, err, "count unread notifications")
	}

	return c.JSON(fiber.Map{"unread_count": count})
}

// MarkAsReadRequest represents mark as read request.
type MarkAsReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids"`
}

// MarkAsRead marks notifications as read.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	if _, err := GetUserID(c); err != nil {
		return ErrorResponse(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req MarkAsReadRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.NotificationIDs) == 0 {
		return ErrorResponse(c, fiber.StatusBadRequest, "notification_ids is required")
	}

	if err := h.notificationService.MarkAsRead(c.Context(), req.NotificationIDs); err != nil {
		return InternalErrorResponse(c, err, "mark notifications read")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"marked":  len(req.NotificationIDs),
	})
}
