package autoreply

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var numberAPI = jsoniter.Config{UseNumber: true}.Froze()

// MessageText accepts any JSON value; anything but a string decodes to "".
type MessageText string

func (m *MessageText) UnmarshalJSON(data []byte) error {
	var s string
	if err := jsoniter.Unmarshal(data, &s); err != nil {
		*m = ""
		return nil
	}
	*m = MessageText(s)
	return nil
}

// SenderID keeps string ids as sent and numeric ids as their JSON literal.
// Any other JSON value decodes to "".
type SenderID string

func (s *SenderID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := numberAPI.Unmarshal(data, &raw); err != nil {
		*s = ""
		return nil
	}

	switch v := raw.(type) {
	case string:
		*s = SenderID(v)
	case json.Number:
		*s = SenderID(v.String())
	default:
		*s = ""
	}
	return nil
}

type ReplyRequest struct {
	Text MessageText `json:"text"`
	From SenderID    `json:"from"`
	Lang string      `json:"lang,omitempty"`
}

type ReplyResponse struct {
	OK          bool     `json:"ok"`
	To          string   `json:"to,omitempty"`
	Reply       string   `json:"reply"`
	Tag         string   `json:"tag,omitempty"`
	IntentScore *float64 `json:"intentScore,omitempty"`
}

const (
	DefaultSender = "user"

	// MaxTextRunes caps how much of a message is scored.
	MaxTextRunes = 4096
)
