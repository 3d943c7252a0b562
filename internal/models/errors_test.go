package models

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error, status int) ErrorResponse {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, status, err)
	})

	resp, terr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, terr)
	defer resp.Body.Close()
	assert.Equal(t, status, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRespondWithError_InternalHidesCause(t *testing.T) {
	body := respond(t, NewInternalError(errors.New("pq: password authentication failed")), fiber.StatusInternalServerError)
	assert.Equal(t, "Internal server error", body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Empty(t, body.Details, "cause text stays server-side")
}

func TestRespondWithError_AppErrorShape(t *testing.T) {
	body := respond(t, NewNotFoundError("Rate", "r-1"), fiber.StatusNotFound)
	assert.Equal(t, "Rate r-1 not found", body.Error)
	assert.Equal(t, "NOT_FOUND", body.Code)
}
