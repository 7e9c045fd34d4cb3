package chatHandler

import (
	autoreplyService "WaiAutoReply/internal/api/autoreply/service"
	"WaiAutoReply/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	autoReplyService autoreplyService.IAutoReplyService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ars autoreplyService.IAutoReplyService,
) *ChatHandler {
	return &ChatHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		autoReplyService: ars,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	chat := srv.Group("/chat")
	chat.Use("/ws", h.middleware.NewRateLimiter, wsMiddleware)
	chat.Get("/ws", websocket.New(h.handleWebSocket))
}
