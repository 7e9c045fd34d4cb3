package webhookService

import (
	"WaiAutoReply/internal/api/autoreply"
	"WaiAutoReply/internal/api/webhook"
	contextPkg "WaiAutoReply/pkg/context"
	"WaiAutoReply/pkg/metrics"
	"WaiAutoReply/pkg/whatsapp"
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	statusReplied   = "replied"
	statusDuplicate = "duplicate"
	statusFailed    = "failed"
	statusMalformed = "malformed"
	statusIgnored   = "ignored"
)

// Process answers every new message in a webhook delivery. Failures are
// logged and counted but never surface to the caller, so the platform always
// gets an acknowledgement.
func (s *webhookService) Process(ctx context.Context, body []byte) webhook.ProcessResult {
	requestID := contextPkg.GetRequestID(ctx)
	result := webhook.ProcessResult{OK: true}

	var payload webhook.Payload
	if err := jsoniter.Unmarshal(body, &payload); err != nil {
		metrics.WebhookMessages.WithLabelValues(statusMalformed).Inc()
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Malformed webhook payload")
		return result
	}

	if payload.Object != webhook.ObjectWhatsApp {
		metrics.WebhookMessages.WithLabelValues(statusIgnored).Inc()
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"object":     payload.Object,
		}).Warn("Ignoring webhook for unexpected object")
		return result
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "" && change.Field != webhook.FieldMessages {
				continue
			}

			for _, msg := range change.Value.Messages {
				switch s.handle(ctx, msg.ID, msg.From, msg.Body()) {
				case statusReplied:
					result.Processed++
				case statusDuplicate:
					result.Duplicates++
				default:
					result.Failed++
				}
			}
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"processed":  result.Processed,
		"duplicates": result.Duplicates,
		"failed":     result.Failed,
	}).Info("Webhook delivery handled")

	return result
}

func (s *webhookService) HandleInbound(ctx context.Context, msg whatsapp.InboundMessage) {
	s.handle(ctx, msg.ID, msg.From, msg.Text)
}

func (s *webhookService) handle(ctx context.Context, id, from, text string) string {
	requestID := contextPkg.GetRequestID(ctx)
	fields := logrus.Fields{
		"request_id": requestID,
		"message_id": id,
		"from":       s.utils.MaskPhoneNumber(from),
	}

	if s.isDuplicate(ctx, id, fields) {
		metrics.WebhookMessages.WithLabelValues(statusDuplicate).Inc()
		s.log.WithFields(fields).Debug("Skipping already processed message")
		return statusDuplicate
	}

	resp, err := s.autoReply.Reply(ctx, autoreply.ReplyRequest{
		Text: autoreply.MessageText(text),
		From: autoreply.SenderID(from),
	})
	if err != nil {
		metrics.WebhookMessages.WithLabelValues(statusFailed).Inc()
		s.log.WithFields(fields).WithError(err).Error("Failed to decide auto-reply")
		return statusFailed
	}

	err = s.sender.SendMessage(ctx, from, resp.Reply)
	metrics.ObserveDelivery(s.sender.Driver(), err)
	if err != nil {
		metrics.WebhookMessages.WithLabelValues(statusFailed).Inc()
		s.log.WithFields(fields).WithError(err).Error("Failed to deliver auto-reply")
		return statusFailed
	}

	metrics.WebhookMessages.WithLabelValues(statusReplied).Inc()
	return statusReplied
}

func (s *webhookService) isDuplicate(ctx context.Context, id string, fields logrus.Fields) bool {
	if s.dedup == nil || id == "" {
		return false
	}

	first, err := s.dedup.MarkMessageProcessed(ctx, id, s.cfg.DedupTTL)
	if err != nil {
		s.log.WithFields(fields).WithError(err).Warn("Dedup store unavailable, processing anyway")
		return false
	}

	return !first
}
