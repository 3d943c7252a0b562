package server

import (
	"gameratez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseUsernameBody reads the {username} payload several engagement endpoints
// share. On failure it has already written the 400 response.
func parseUsernameBody(c *fiber.Ctx) (string, bool) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return "", false
	}
	if req.Username == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is required"))
		return "", false
	}
	return req.Username, true
}

// LikeRate handles POST /api/rates/:id/like. Liking twice is a conflict.
func (s *Server) LikeRate(c *fiber.Ctx) error {
	username, ok := parseUsernameBody(c)
	if !ok {
		return nil
	}
	actingUsername(c, username)

	count, err := s.engagementService.Like(c.Context(), c.Params("id"), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"likeCount": count})
}

// UnlikeRate handles DELETE /api/rates/:id/like.
func (s *Server) UnlikeRate(c *fiber.Ctx) error {
	username, ok := parseUsernameBody(c)
	if !ok {
		return nil
	}
	actingUsername(c, username)

	count, err := s.engagementService.Unlike(c.Context(), c.Params("id"), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"likeCount": count})
}

// BookmarkRate handles POST /api/rates/:id/bookmark. Bookmarks are private:
// no notification is emitted.
func (s *Server) BookmarkRate(c *fiber.Ctx) error {
	username, ok := parseUsernameBody(c)
	if !ok {
		return nil
	}
	actingUsername(c, username)

	count, err := s.engagementService.Bookmark(c.Context(), c.Params("id"), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"bookmarkCount": count})
}

// UnbookmarkRate handles DELETE /api/rates/:id/bookmark.
func (s *Server) UnbookmarkRate(c *fiber.Ctx) error {
	username, ok := parseUsernameBody(c)
	if !ok {
		return nil
	}
	actingUsername(c, username)

	count, err := s.engagementService.Unbookmark(c.Context(), c.Params("id"), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"bookmarkCount": count})
}

// GetComments handles GET /api/rates/:id/comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	viewer := c.Query("username")
	actingUsername(c, viewer)

	comments, err := s.engagementService.ListComments(c.Context(), c.Params("id"), viewer)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// CreateComment handles POST /api/rates/:id/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Body     string `json:"body"`
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

	comment, count, err := s.engagementService.Comment(c.Context(), c.Params("id"), req.Username, req.Body)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment":      comment,
		"commentCount": count,
	})
}

// ReportRate handles POST /api/rates/:id/report. Reports are write-only;
// there is no moderation surface in the API.
func (s *Server) ReportRate(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Reason   string `json:"reason"`
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

	if err := s.engagementService.Report(c.Context(), c.Params("id"), req.Username, req.Reason); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
