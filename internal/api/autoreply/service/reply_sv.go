package autoreplyService

import (
	"WaiAutoReply/internal/api/autoreply"
	contextPkg "WaiAutoReply/pkg/context"
	"WaiAutoReply/pkg/metrics"
	"WaiAutoReply/pkg/nlp"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

func (s *autoReplyService) Reply(ctx context.Context, req autoreply.ReplyRequest) (*autoreply.ReplyResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestID := contextPkg.GetRequestID(ctx)

	from := strings.TrimSpace(string(req.From))
	if from == "" {
		from = autoreply.DefaultSender
	}

	decision := s.responder.Respond(truncateRunes(string(req.Text), autoreply.MaxTextRunes))
	if text, ok := s.translator.FixedReply(decision.Kind, req.Lang); ok && text != "" {
		decision.Reply = text
	}

	metrics.ObserveDecision(decision)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"from":       s.utils.MaskPhoneNumber(from),
		"kind":       decision.Kind,
		"tag":        decision.Tag,
		"score":      decision.Score,
	}).Info("Auto-reply decided")

	return toResponse(from, decision), nil
}

func toResponse(to string, d nlp.Decision) *autoreply.ReplyResponse {
	resp := &autoreply.ReplyResponse{
		OK:    true,
		To:    to,
		Reply: d.Reply,
		Tag:   d.Tag,
	}

	if d.HasScore() {
		score := d.Score
		resp.IntentScore = &score
	}

	return resp
}

func truncateRunes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
