package config

import (
	webhookService "WaiAutoReply/internal/api/webhook/service"
	jwtPkg "WaiAutoReply/pkg/jwt"
	"WaiAutoReply/pkg/redis"
	"WaiAutoReply/pkg/whatsapp"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent map[string]string
}

func (r *recordingSender) SendMessage(_ context.Context, to, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = map[string]string{}
	}
	r.sent[to] = text
	return nil
}

func (r *recordingSender) Driver() string    { return whatsapp.DriverLog }
func (r *recordingSender) Disconnect() error { return nil }
func (r *recordingSender) IsConnected() bool { return true }

const (
	testVerifyToken = "verify-me"
	testAppSecret   = "app-secret"
	testAdminSecret = "admin-secret"
)

func newTestServer(t *testing.T, extra ...ServerOption) (*Server, *recordingSender) {
	t.Helper()

	t.Setenv("WEBHOOK_VERIFY_TOKEN", testVerifyToken)
	t.Setenv("WHATSAPP_APP_SECRET", testAppSecret)
	t.Setenv("ADMIN_JWT_SECRET", testAdminSecret)

	cfg, err := loadAppConfig(viper.New())
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sender := &recordingSender{}
	opts := append([]ServerOption{
		WithFiber(NewFiber(logger)),
		WithLogger(logger),
		WithAppConfig(cfg),
		WithKnowledgeBase(context.Background(), "embedded"),
		WithResponder(),
		WithWhatsappSender(sender),
	}, extra...)
	server, err := NewServer(opts...)
	require.NoError(t, err)

	server.RegisterHandler()
	return server, sender
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestNewServer_RequiresPieces(t *testing.T) {
	_, err := NewServer()
	assert.Error(t, err)

	_, err = NewServer(WithResponder())
	assert.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := server.App().Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextPlain)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, HealthMessage, string(body))
}

func TestServer_Ready(t *testing.T) {
	t.Run("without redis", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, err := server.App().Test(httptest.NewRequest(fiber.MethodGet, "/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "disabled", decode(t, resp)["redis"])
	})

	t.Run("redis up then down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		server, _ := newTestServer(t, WithRedisServer(redis.New(redis.Options{Address: mr.Addr()})))

		resp, err := server.App().Test(httptest.NewRequest(fiber.MethodGet, "/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "up", decode(t, resp)["redis"])

		mr.Close()

		resp, err = server.App().Test(httptest.NewRequest(fiber.MethodGet, "/ready", nil), 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, false, decode(t, resp)["ready"])
	})
}

func TestServer_Reply(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name      string
		body      string
		tag       string
		to        string
		withScore bool
	}{
		{name: "pricing", body: `{"text":"price","from":"919800000000"}`, tag: "pricing", to: "919800000000", withScore: true},
		{name: "empty text", body: `{"text":""}`, to: "user"},
		{name: "non string text", body: `{"text":42}`, to: "user"},
		{name: "no body", body: ``, to: "user"},
		{name: "gibberish", body: `{"text":"xyzxyz"}`, to: "user", withScore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/api/v1/wa", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := server.App().Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, true, body["ok"])
			assert.Equal(t, tt.to, body["to"])
			assert.NotEmpty(t, body["reply"])

			if tt.tag != "" {
				assert.Equal(t, tt.tag, body["tag"])
			} else {
				assert.NotContains(t, body, "tag")
			}

			_, hasScore := body["intentScore"]
			assert.Equal(t, tt.withScore, hasScore)
		})
	}
}

func TestServer_ReplyLocalized(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/wa", strings.NewReader(`{"text":"  ","lang":"en"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := server.App().Test(req)
	require.NoError(t, err)

	reply, _ := decode(t, resp)["reply"].(string)
	assert.NotContains(t, reply, "नमस्कार")
	assert.NotEmpty(t, reply)
}

func TestServer_WebhookRoundTrip(t *testing.T) {
	server, sender := newTestServer(t)

	verify := httptest.NewRequest(fiber.MethodGet,
		"/api/v1/webhook?hub.mode=subscribe&hub.verify_token="+testVerifyToken+"&hub.challenge=1158201444", nil)
	resp, err := server.App().Test(verify)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	challenge, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "1158201444", string(challenge))

	payload := `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{"messages":[{"id":"wamid.1","from":"919811111111","type":"text","text":{"body":"closing time?"}}]}}]}]}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhook", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("X-Hub-Signature-256", webhookService.SignatureHeader(testAppSecret, []byte(payload)))

	resp, err = server.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode(t, resp)["processed"])

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Contains(t, sender.sent["919811111111"], "24x7")
}

func TestServer_KnowledgeRequiresToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := server.App().Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/knowledge/intents", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := jwtPkg.SignAdmin(testAdminSecret, "ops", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/knowledge/intents", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err = server.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), decode(t, resp)["count"])
}

func TestServer_KnowledgeMatchAsAdmin(t *testing.T) {
	server, _ := newTestServer(t)

	token, _, err := jwtPkg.SignAdmin(testAdminSecret, "ops", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/knowledge/match", strings.NewReader(`{"text":"price?"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := server.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "pricing", body["tag"])
	assert.Equal(t, true, body["accepted"])
}

func TestServer_Metrics(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/wa", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	_, err := server.App().Test(req)
	require.NoError(t, err)

	resp, err := server.App().Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "autoreply_decisions_total")
}
