package chatHandler

import (
	"WaiAutoReply/internal/api/autoreply"
	autoreplyService "WaiAutoReply/internal/api/autoreply/service"
	"WaiAutoReply/internal/middleware"
	"WaiAutoReply/pkg/locale"
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/utils"
	"io"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	kb, err := nlp.NewKnowledgeBase([]nlp.Intent{
		{Tag: "support", Patterns: []string{"help", "contact"}, Replies: []string{"Mail us"}},
	})
	require.NoError(t, err)

	translator, err := locale.New("mr")
	require.NoError(t, err)

	svc := autoreplyService.NewAutoReplyService(logger, nlp.NewResponder(nlp.NewMatcher(kb)), translator, utils.New())
	mw := middleware.New(logger, middleware.Options{})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app.Group("/api/v1"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/api/v1/chat/ws"
}

func TestChatWebSocket(t *testing.T) {
	url := startServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	t.Run("json frame", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"text":"help please","from":"web"}`)))

		var resp autoreply.ReplyResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "web", resp.To)
		assert.Equal(t, "support", resp.Tag)
		assert.Equal(t, "Mail us", resp.Reply)
	})

	t.Run("raw text frame", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("contact")))

		var resp autoreply.ReplyResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, autoreply.DefaultSender, resp.To)
		assert.Equal(t, "support", resp.Tag)
	})

	t.Run("empty frame", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("")))

		var resp autoreply.ReplyResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, nlp.DefaultEmptyReply, resp.Reply)
		assert.Nil(t, resp.IntentScore)
	})
}

func TestChatRequiresUpgrade(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger, middleware.Options{})
	app := fiber.New()
	New(logger, validator.New(), mw, nil).Start(app.Group("/api/v1"))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/chat/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
