package knowledgeHandler

import (
	"WaiAutoReply/internal/api/knowledge"
	contextPkg "WaiAutoReply/pkg/context"
	"WaiAutoReply/pkg/handlerUtil"
	jwtPkg "WaiAutoReply/pkg/jwt"
	"WaiAutoReply/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *KnowledgeHandler) ListIntents(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	response, err := h.knowledgeService.ListIntents(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_intents")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *KnowledgeHandler) GetIntent(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	intent, err := h.knowledgeService.GetIntent(c, ctx.Params("tag"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_intent")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, intent)
}

func (h *KnowledgeHandler) Search(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req knowledge.SearchRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, knowledge.ErrInvalidPayload, ctx.Path(), "parse_search_query")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.knowledgeService.Search(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "search_patterns")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *KnowledgeHandler) Match(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req knowledge.MatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, knowledge.ErrInvalidPayload, ctx.Path(), "parse_match_request")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	admin, err := jwtPkg.GetAdminLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "admin identity missing")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"admin":      admin.Subject,
	}).Info("Admin match requested")

	response, err := h.knowledgeService.Match(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "match_text")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}
