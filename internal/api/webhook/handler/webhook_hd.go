package webhookHandler

import (
	"WaiAutoReply/internal/api/webhook"
	contextPkg "WaiAutoReply/pkg/context"
	"WaiAutoReply/pkg/handlerUtil"
	"WaiAutoReply/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *WebhookHandler) Verify(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	req := webhook.VerifyRequest{
		Mode:      ctx.Query("hub.mode"),
		Token:     ctx.Query("hub.verify_token"),
		Challenge: ctx.Query("hub.challenge"),
	}

	challenge, err := h.webhookService.Verify(req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_webhook")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
	}).Info("Webhook subscription verified")

	return ctx.Status(fiber.StatusOK).SendString(challenge)
}

func (h *WebhookHandler) Receive(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	body := ctx.Body()
	if err := h.webhookService.VerifySignature(body, ctx.Get(webhook.SignatureHeader)); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_signature")
	}

	result := h.webhookService.Process(c, body)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}
