package server

import (
	"time"

	"gameratez/internal/models"
	"gameratez/internal/observability"
	"gameratez/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetRates handles GET /api/rates. Query parameters select the view:
// tab=following, raterHandle=, bookmarkedBy=, platform=; username identifies
// the viewer for the liked/bookmarked flags.
func (s *Server) GetRates(c *fiber.Ctx) error {
	in := service.ListRatesInput{
		Tab:          c.Query("tab"),
		Username:     c.Query("username"),
		RaterHandle:  c.Query("raterHandle"),
		BookmarkedBy: c.Query("bookmarkedBy"),
		Platform:     c.Query("platform"),
	}
	actingUsername(c, in.Username)

	rates, err := s.rateService.ListRates(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rates)
}

// GetRate handles GET /api/rates/:id. A scheduled rate whose time has not
// come yet is indistinguishable from a missing one.
func (s *Server) GetRate(c *fiber.Ctx) error {
	viewer := c.Query("username")
	actingUsername(c, viewer)

	rate, err := s.rateService.GetRate(c.Context(), c.Params("id"), viewer)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rate)
}

// CreateRate handles POST /api/rates.
func (s *Server) CreateRate(c *fiber.Ctx) error {
	var req struct {
		GameName    string                       `json:"gameName"`
		Rating      int                          `json:"rating"`
		Body        string                       `json:"body"`
		RaterName   string                       `json:"raterName"`
		RaterHandle string                       `json:"raterHandle"`
		Images      []string                     `json:"images"`
		Poll        *service.CreateRatePollInput `json:"poll"`
		ScheduledAt *time.Time                   `json:"scheduledAt"`
		Platform    string                       `json:"platform"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	actingUsername(c, req.RaterHandle)

	rate, err := s.rateService.CreateRate(c.Context(), service.CreateRateInput{
		GameName:    req.GameName,
		Rating:      req.Rating,
		Body:        req.Body,
		RaterName:   req.RaterName,
		RaterHandle: req.RaterHandle,
		Images:      req.Images,
		Poll:        req.Poll,
		ScheduledAt: req.ScheduledAt,
		Platform:    req.Platform,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RatesCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(rate)
}

// SearchEverything handles GET /api/search, returning matching users and
// rates in one payload.
func (s *Server) SearchEverything(c *fiber.Ctx) error {
	viewer := c.Query("username")
	actingUsername(c, viewer)

	result, err := s.rateService.Search(c.Context(), c.Query("q"), viewer)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetTrending handles GET /api/rates/trending.
func (s *Server) GetTrending(c *fiber.Ctx) error {
	trending, err := s.rateService.Trending(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(trending)
}

// VotePoll handles POST /api/rates/:id/poll/vote.
func (s *Server) VotePoll(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		OptionIndex int    `json:"optionIndex"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is required"))
	}
	actingUsername(c, req.Username)

	rate, err := s.rateService.VotePoll(c.Context(), c.Params("id"), req.Username, req.OptionIndex)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rate)
}

// AdminDeleteRate handles DELETE /api/admin/rates/:id. The AdminRequired
// middleware has already checked the token.
func (s *Server) AdminDeleteRate(c *fiber.Ctx) error {
	if err := s.rateService.DeleteRate(c.Context(), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
