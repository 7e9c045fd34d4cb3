package knowledgeService

import (
	"WaiAutoReply/internal/api/knowledge"
	"WaiAutoReply/pkg/nlp"
	"context"

	"github.com/sirupsen/logrus"
)

type IKnowledgeService interface {
	ListIntents(ctx context.Context) (*knowledge.IntentsResponse, error)
	GetIntent(ctx context.Context, tag string) (*nlp.Intent, error)
	Search(ctx context.Context, req knowledge.SearchRequest) (*knowledge.SearchResponse, error)
	Match(ctx context.Context, req knowledge.MatchRequest) (*knowledge.MatchResponse, error)
}

type knowledgeService struct {
	log       *logrus.Logger
	responder nlp.IResponder
}

func NewKnowledgeService(log *logrus.Logger, responder nlp.IResponder) IKnowledgeService {
	return &knowledgeService{
		log:       log,
		responder: responder,
	}
}
