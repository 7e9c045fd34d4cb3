package autoreplyService

import (
	"WaiAutoReply/internal/api/autoreply"
	"WaiAutoReply/pkg/locale"
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IAutoReplyService interface {
	Reply(ctx context.Context, req autoreply.ReplyRequest) (*autoreply.ReplyResponse, error)
}

type autoReplyService struct {
	log        *logrus.Logger
	responder  nlp.IResponder
	translator locale.ITranslator
	utils      utils.IUtils
}

func NewAutoReplyService(
	log *logrus.Logger,
	responder nlp.IResponder,
	translator locale.ITranslator,
	utils utils.IUtils,
) IAutoReplyService {
	return &autoReplyService{
		log:        log,
		responder:  responder,
		translator: translator,
		utils:      utils,
	}
}
