package server

import (
	"errors"

	"gameratez/internal/middleware"
	"gameratez/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps a service-layer error onto the HTTP taxonomy.
// Anything that is not an AppError is treated as internal: logged with the
// original cause, surfaced with a generic body.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "CONFLICT":
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}
	middleware.Logger.ErrorContext(c.UserContext(), "request handling failed",
		"error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// actingUsername stashes the acting username in locals so the logging and
// tracing middleware can attribute the request.
func actingUsername(c *fiber.Ctx, username string) {
	if username != "" {
		c.Locals("username", username)
	}
}
