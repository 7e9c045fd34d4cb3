package webhookService

import (
	"WaiAutoReply/internal/api/webhook"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signaturePrefix = "sha256="

func (s *webhookService) Verify(req webhook.VerifyRequest) (string, error) {
	if s.cfg.VerifyToken == "" {
		s.log.Warn("Webhook verification attempted without WEBHOOK_VERIFY_TOKEN")
		return "", webhook.ErrVerifyTokenNotSet
	}

	if req.Mode != webhook.ModeSubscribe || !hmac.Equal([]byte(req.Token), []byte(s.cfg.VerifyToken)) {
		return "", webhook.ErrVerificationFailed
	}

	return req.Challenge, nil
}

// VerifySignature checks X-Hub-Signature-256 against the raw body. It is a
// no-op when no app secret is configured.
func (s *webhookService) VerifySignature(body []byte, header string) error {
	if s.cfg.AppSecret == "" {
		return nil
	}

	sig, ok := strings.CutPrefix(strings.TrimSpace(header), signaturePrefix)
	if !ok {
		return webhook.ErrInvalidSignature
	}

	got, err := hex.DecodeString(sig)
	if err != nil {
		return webhook.ErrInvalidSignature
	}

	if !hmac.Equal(got, Sign(s.cfg.AppSecret, body)) {
		return webhook.ErrInvalidSignature
	}

	return nil
}

// Sign returns the raw HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureHeader formats the header value the platform would send for body.
func SignatureHeader(secret string, body []byte) string {
	return signaturePrefix + hex.EncodeToString(Sign(secret, body))
}
