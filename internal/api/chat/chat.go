package chat

import (
	"WaiAutoReply/internal/api/autoreply"
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

type ErrorFrame struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// DecodeFrame reads an inbound text frame. JSON objects are decoded as a
// reply request; anything else is taken verbatim as the message text.
func DecodeFrame(frame []byte) autoreply.ReplyRequest {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var req autoreply.ReplyRequest
		if err := jsoniter.Unmarshal(trimmed, &req); err == nil {
			return req
		}
	}

	return autoreply.ReplyRequest{Text: autoreply.MessageText(frame)}
}

const MaxFrameSize = 16 * 1024
