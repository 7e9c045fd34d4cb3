package knowledgeHandler

import (
	knowledgeService "WaiAutoReply/internal/api/knowledge/service"
	"WaiAutoReply/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type KnowledgeHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	knowledgeService knowledgeService.IKnowledgeService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ks knowledgeService.IKnowledgeService,
) *KnowledgeHandler {
	return &KnowledgeHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		knowledgeService: ks,
	}
}

func (h *KnowledgeHandler) Start(srv fiber.Router) {
	kb := srv.Group("/knowledge", h.middleware.NewTokenMiddleware)
	kb.Get("/intents", h.ListIntents)
	kb.Get("/intents/:tag", h.GetIntent)
	kb.Get("/search", h.Search)
	kb.Post("/match", h.Match)
}
