package server

import (
	"gameratez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications?username=, newest first.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	username := c.Query("username")
	actingUsername(c, username)

	notifications, err := s.notificationService.List(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(notifications)
}

// GetUnreadCount handles GET /api/notifications/unread-count?username=.
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	username := c.Query("username")
	actingUsername(c, username)

	count, err := s.notificationService.UnreadCount(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"unreadCount": count})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	if err := s.notificationService.MarkRead(c.Context(), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

// MarkAllNotificationsRead handles PATCH /api/notifications/read-all.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	actingUsername(c, req.Username)

	updated, err := s.notificationService.MarkAllRead(c.Context(), req.Username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"updated": updated})
}
