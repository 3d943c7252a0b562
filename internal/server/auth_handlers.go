package server

import (
	"gameratez/internal/models"
	"gameratez/internal/observability"
	"gameratez/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup: the credentials half of the two-phase
// flow. Nothing is persisted; the returned completeToken bridges to the
// profile step and expires after ten minutes.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	token, err := s.authService.Signup(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.SignupTokensIssued.Inc()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"email":         req.Email,
		"completeToken": token,
	})
}

// CompleteSignup handles POST /api/auth/complete: the profile half. A taken
// username leaves the token valid so the client can resubmit.
func (s *Server) CompleteSignup(c *fiber.Ctx) error {
	var req service.CompleteSignupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CompleteToken == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("completeToken is required"))
	}

	user, err := s.authService.Complete(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	actingUsername(c, user.Username)
	observability.SignupsCompleted.Inc()
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login. There is no session artifact; success
// simply returns the profile object the client keeps locally.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	actingUsername(c, user.Username)
	return c.Status(fiber.StatusOK).JSON(user)
}
