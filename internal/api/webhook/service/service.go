package webhookService

import (
	"WaiAutoReply/internal/api/webhook"
	autoreplyService "WaiAutoReply/internal/api/autoreply/service"
	"WaiAutoReply/pkg/redis"
	"WaiAutoReply/pkg/utils"
	"WaiAutoReply/pkg/whatsapp"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IWebhookService interface {
	Verify(req webhook.VerifyRequest) (string, error)
	VerifySignature(body []byte, header string) error
	Process(ctx context.Context, body []byte) webhook.ProcessResult
	HandleInbound(ctx context.Context, msg whatsapp.InboundMessage)
}

type Config struct {
	VerifyToken string
	AppSecret   string
	DedupTTL    time.Duration
}

type webhookService struct {
	log       *logrus.Logger
	cfg       Config
	autoReply autoreplyService.IAutoReplyService
	sender    whatsapp.IWhatsappSender
	dedup     redis.IRedis
	utils     utils.IUtils
}

// NewWebhookService wires the inbound pipeline. dedup may be nil, in which
// case every delivery is processed.
func NewWebhookService(
	log *logrus.Logger,
	cfg Config,
	autoReply autoreplyService.IAutoReplyService,
	sender whatsapp.IWhatsappSender,
	dedup redis.IRedis,
	utils utils.IUtils,
) IWebhookService {
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = 24 * time.Hour
	}

	return &webhookService{
		log:       log,
		cfg:       cfg,
		autoReply: autoReply,
		sender:    sender,
		dedup:     dedup,
		utils:     utils,
	}
}
