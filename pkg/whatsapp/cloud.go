package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const defaultGraphURL = "https://graph.facebook.com/v20.0"

type cloudTextBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type cloudMessageRequest struct {
	MessagingProduct string        `json:"messaging_product"`
	RecipientType    string        `json:"recipient_type"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             cloudTextBody `json:"text"`
}

type cloudErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type cloudSender struct {
	client      *fiber.Client
	endpoint    string
	accessToken string
	timeout     time.Duration
}

// NewCloudSender delivers replies through the WhatsApp Business Cloud API.
func NewCloudSender(cfg Config) (IWhatsappSender, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, ErrMissingCreds
	}

	base := strings.TrimRight(cfg.GraphURL, "/")
	if base == "" {
		base = defaultGraphURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &cloudSender{
		client: &fiber.Client{
			JSONEncoder: jsoniter.Marshal,
			JSONDecoder: jsoniter.Unmarshal,
		},
		endpoint:    fmt.Sprintf("%s/%s/messages", base, cfg.PhoneNumberID),
		accessToken: cfg.AccessToken,
		timeout:     timeout,
	}, nil
}

func (s *cloudSender) SendMessage(ctx context.Context, phoneNumber, message string) error {
	if phoneNumber == "" {
		return ErrEmptyRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	agent := s.client.Post(s.endpoint).
		Set(fiber.HeaderAuthorization, "Bearer "+s.accessToken).
		Timeout(timeout).
		JSON(cloudMessageRequest{
			MessagingProduct: "whatsapp",
			RecipientType:    "individual",
			To:               phoneNumber,
			Type:             "text",
			Text:             cloudTextBody{Body: message},
		})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("failed to send message: %w", errs[0])
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		var apiErr cloudErrorResponse
		if err := jsoniter.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("failed to send message: status %d: %s (code %d)", code, apiErr.Error.Message, apiErr.Error.Code)
		}
		return fmt.Errorf("failed to send message: status %d", code)
	}

	return nil
}

func (s *cloudSender) Driver() string {
	return DriverCloud
}

func (s *cloudSender) Disconnect() error {
	return nil
}

func (s *cloudSender) IsConnected() bool {
	return true
}
