package context

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestID(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestID(context.Background()))
	assert.Equal(t, "unknown", GetRequestID(WithRequestID(context.Background(), "")))
	assert.Equal(t, "abc", GetRequestID(WithRequestID(context.Background(), "abc")))

	// a plain string key must not collide with the typed one
	ctx := context.WithValue(context.Background(), "request_id", "spoofed")
	assert.Equal(t, "unknown", GetRequestID(ctx))
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/locals", func(c *fiber.Ctx) error {
		c.Locals(LocalsRequestID, "from-locals")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	tests := []struct {
		path   string
		header string
		want   string
	}{
		{path: "/locals", header: "from-header", want: "from-locals"},
		{path: "/header", header: "from-header", want: "from-header"},
		{path: "/header", want: "unknown"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set(LocalsRequestID, tt.header)
		}

		resp, err := app.Test(req)
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, tt.want, string(body))
	}
}
