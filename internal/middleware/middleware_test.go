package middleware

import (
	jwtPkg "WaiAutoReply/pkg/jwt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-admin-secret"

func newTestApp(opts Options) (*fiber.App, Middleware) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := New(logger, opts)
	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	app.Use(mw.NewLoggingMiddleware())
	return app, mw
}

func TestRequestIDMiddleware(t *testing.T) {
	app, mw := newTestApp(Options{})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(mw.GetRequestID(c))
	})

	t.Run("generates id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Len(t, string(body), 26)
		assert.Equal(t, string(body), resp.Header.Get(RequestIDKey))
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(RequestIDKey, "abc-123")

		resp, err := app.Test(req)
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "abc-123", string(body))
	})
}

func TestRateLimiter(t *testing.T) {
	app, mw := newTestApp(Options{RatePerSecond: 0.001, RateBurst: 2})
	app.Get("/", mw.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, codes)
}

func TestTokenMiddleware(t *testing.T) {
	app, mw := newTestApp(Options{AdminSecret: testSecret})
	app.Get("/admin", mw.NewTokenMiddleware, func(c *fiber.Ctx) error {
		admin, err := jwtPkg.GetAdminLoginData(c)
		if err != nil {
			return err
		}
		return c.SendString(admin.Subject)
	})

	adminToken, _, err := jwtPkg.SignAdmin(testSecret, "ops@wai", time.Hour)
	require.NoError(t, err)

	viewerToken, _, err := jwtPkg.Sign(testSecret, map[string]interface{}{
		"sub":  "viewer",
		"role": "viewer",
	}, time.Hour)
	require.NoError(t, err)

	otherSecret, _, err := jwtPkg.SignAdmin("another-secret", "ops@wai", time.Hour)
	require.NoError(t, err)

	expired, _, err := jwtPkg.SignAdmin(testSecret, "ops@wai", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid admin", header: "Bearer " + adminToken, status: fiber.StatusOK, body: "ops@wai"},
		{name: "missing header", header: "", status: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + adminToken, status: fiber.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + otherSecret, status: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: fiber.StatusUnauthorized},
		{name: "non admin role", header: "Bearer " + viewerToken, status: fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			if tt.body != "" {
				assert.Equal(t, tt.body, string(body))
			}
			if tt.status == fiber.StatusUnauthorized {
				assert.Contains(t, string(body), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestSanitizeRequestBody(t *testing.T) {
	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody("plain"))

	out := sanitizeRequestBody(`{"text":"hello","from":"9198","lang":"en"}`)
	assert.Contains(t, out, `"text":"[SECRET]"`)
	assert.Contains(t, out, `"from":"[SECRET]"`)
	assert.Contains(t, out, `"lang":"en"`)
}
