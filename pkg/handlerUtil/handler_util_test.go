package handlerUtil

import (
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/response"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "coded error", err: response.NewError(403, "nope"), status: 403},
		{name: "wrapped coded error", err: fmt.Errorf("ctx: %w", response.NewError(401, "bad sig")), status: 401},
		{name: "deadline", err: context.DeadlineExceeded, status: fiber.StatusRequestTimeout},
		{name: "knowledge base", err: fmt.Errorf("load: %w", nlp.ErrDuplicateTag), status: fiber.StatusUnprocessableEntity, code: "INVALID_KNOWLEDGE_BASE"},
		{name: "unexpected", err: errors.New("boom"), status: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return h.Handle(c, "req-1", tt.err, c.Path(), "test")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestHandleSuccessWithoutData(t *testing.T) {
	h := New(logrus.New())
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return h.HandleSuccess(c, fiber.StatusNoContent, nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestHandleUnauthorized(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return h.HandleUnauthorized(c, "req-1", "token expired")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "token expired", body.Error)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}
