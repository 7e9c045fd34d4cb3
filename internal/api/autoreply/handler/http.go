package autoreplyHandler

import (
	autoreplyService "WaiAutoReply/internal/api/autoreply/service"
	"WaiAutoReply/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AutoReplyHandler struct {
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
) *AutoReplyHandler {
	return &AutoReplyHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		autoReplyService: ars,
	}
}

func (h *AutoReplyHandler) Start(srv fiber.Router) {
	srv.Post("/wa", h.middleware.NewRateLimiter, h.Reply)
}
