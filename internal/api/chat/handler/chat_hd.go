package chatHandler

import (
	"WaiAutoReply/internal/api/chat"
	"WaiAutoReply/internal/middleware"
	contextPkg "WaiAutoReply/pkg/context"
	"WaiAutoReply/pkg/log"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	readTimeout  = 5 * time.Minute
	writeTimeout = 10 * time.Second
)

func (h *ChatHandler) handleWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	fields := log.Fields{"request_id": requestID}

	h.log.WithFields(fields).Info("Chat client connected")
	defer h.log.WithFields(fields).Info("Chat client disconnected")

	c.SetReadLimit(chat.MaxFrameSize)

	for {
		if err := c.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			h.log.WithFields(fields).Errorf("Error setting read deadline: %v", err)
			return
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(fields).Warnf("Chat websocket error: %v", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		if err := h.reply(c, requestID, message); err != nil {
			h.log.WithFields(fields).Errorf("Error writing chat reply: %v", err)
			return
		}
	}
}

func (h *ChatHandler) reply(c *websocket.Conn, requestID string, message []byte) error {
	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), 5*time.Second)
	defer cancel()

	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}

	req := chat.DecodeFrame(message)
	if err := h.validator.Struct(req); err != nil {
		return c.WriteJSON(chat.ErrorFrame{Error: "Validation failed: " + err.Error()})
	}

	response, err := h.autoReplyService.Reply(ctx, req)
	if err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to decide chat reply")
		return c.WriteJSON(chat.ErrorFrame{Error: "An unexpected error occurred"})
	}

	return c.WriteJSON(response)
}
