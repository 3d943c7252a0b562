package server

import (
	"gameratez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetConversations handles GET /api/messages/conversations?username=.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	username := c.Query("username")
	actingUsername(c, username)

	conversations, err := s.messageService.Conversations(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(conversations)
}

// GetMessageThread handles GET /api/messages?username=&with=.
func (s *Server) GetMessageThread(c *fiber.Ctx) error {
	username := c.Query("username")
	actingUsername(c, username)

	messages, err := s.messageService.Thread(c.Context(), username, c.Query("with"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(messages)
}

// SendMessage handles POST /api/messages.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		SenderUsername   string `json:"senderUsername"`
		ReceiverUsername string `json:"receiverUsername"`
		Body             string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.SenderUsername == "" || req.ReceiverUsername == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("senderUsername and receiverUsername are required"))
	}
	actingUsername(c, req.SenderUsername)

	msg, err := s.messageService.Send(c.Context(), req.SenderUsername, req.ReceiverUsername, req.Body)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
