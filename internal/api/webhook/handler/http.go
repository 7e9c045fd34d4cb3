package webhookHandler

import (
	webhookService "WaiAutoReply/internal/api/webhook/service"
	"WaiAutoReply/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WebhookHandler struct {
	log            *logrus.Logger
	middleware     middleware.Middleware
	webhookService webhookService.IWebhookService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ws webhookService.IWebhookService,
) *WebhookHandler {
	return &WebhookHandler{
		log:            log,
		middleware:     middleware,
		webhookService: ws,
	}
}

func (h *WebhookHandler) Start(srv fiber.Router) {
	webhook := srv.Group("/webhook")
	webhook.Get("/", h.Verify)
	webhook.Post("/", h.Receive)
}
