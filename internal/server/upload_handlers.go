package server

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"

	// Register decoders for the formats the frontend uploads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"gameratez/internal/models"
	"gameratez/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxUploadBytes caps one uploaded image at 5MB.
const MaxUploadBytes = 5 << 20

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadImage handles POST /api/upload-image. One multipart field "image";
// the file is sniffed by decoding its header, not trusted by extension, and
// stored under a random name served back via /uploads/.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}
	if file.Size > MaxUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the 5MB limit"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	if len(content) > MaxUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the 5MB limit"))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported image format"))
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported image format"))
	}

	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return respondServiceError(c, err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.config.UploadDir, name), content, 0o644); err != nil {
		return respondServiceError(c, err)
	}

	observability.ImageUploads.Inc()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": "/uploads/" + name,
	})
}
