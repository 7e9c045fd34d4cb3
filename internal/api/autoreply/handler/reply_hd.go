package autoreplyHandler

import (
	"WaiAutoReply/internal/api/autoreply"
	contextPkg "WaiAutoReply/pkg/context"
	"WaiAutoReply/pkg/handlerUtil"
	"WaiAutoReply/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AutoReplyHandler) Reply(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing auto-reply request")

	var req autoreply.ReplyRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.Handle(ctx, requestID, autoreply.ErrInvalidPayload, ctx.Path(), "parse_reply_request")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.autoReplyService.Reply(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "auto_reply")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}
