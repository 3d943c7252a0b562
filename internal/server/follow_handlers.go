package server

import (
	"gameratez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// followPair extracts the follower/followee pairing from query params (GET,
// DELETE) or the JSON body (POST).
func followPair(c *fiber.Ctx) (follower, followee string, ok bool) {
	if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodDelete {
		follower = c.Query("followerUsername")
		followee = c.Query("followeeUsername")
	} else {
		var req struct {
			FollowerUsername string `json:"followerUsername"`
			FolloweeUsername string `json:"followeeUsername"`
		}
		if err := c.BodyParser(&req); err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
			return "", "", false
		}
		follower, followee = req.FollowerUsername, req.FolloweeUsername
	}
	if follower == "" || followee == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("followerUsername and followeeUsername are required"))
		return "", "", false
	}
	return follower, followee, true
}

// GetFollowStatus handles GET /api/follow.
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	follower, followee, ok := followPair(c)
	if !ok {
		return nil
	}
	actingUsername(c, follower)

	following, err := s.followService.IsFollowing(c.Context(), follower, followee)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"following": following})
}

// Follow handles POST /api/follow. Self-follow is a validation error and a
// duplicate edge a conflict.
func (s *Server) Follow(c *fiber.Ctx) error {
	follower, followee, ok := followPair(c)
	if !ok {
		return nil
	}
	actingUsername(c, follower)

	if err := s.followService.Follow(c.Context(), follower, followee); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"following": true})
}

// Unfollow handles DELETE /api/follow. Deleting an absent edge is 404.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	follower, followee, ok := followPair(c)
	if !ok {
		return nil
	}
	actingUsername(c, follower)

	if err := s.followService.Unfollow(c.Context(), follower, followee); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"following": false})
}

// GetFollowing handles GET /api/following?username=.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username is required"))
	}
	actingUsername(c, username)

	profiles, err := s.followService.Following(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profiles)
}
