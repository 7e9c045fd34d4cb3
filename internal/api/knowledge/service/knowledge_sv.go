package knowledgeService

import (
	"WaiAutoReply/internal/api/knowledge"
	contextPkg "WaiAutoReply/pkg/context"
	knowledgePkg "WaiAutoReply/pkg/knowledge"
	"WaiAutoReply/pkg/nlp"
	"context"

	"github.com/sirupsen/logrus"
)

func (s *knowledgeService) ListIntents(ctx context.Context) (*knowledge.IntentsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	intents := s.responder.KnowledgeBase().Intents()
	return &knowledge.IntentsResponse{
		Count:   len(intents),
		Intents: intents,
	}, nil
}

func (s *knowledgeService) GetIntent(ctx context.Context, tag string) (*nlp.Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	intent, ok := s.responder.KnowledgeBase().Find(tag)
	if !ok {
		return nil, knowledge.ErrIntentNotFound
	}

	return &intent, nil
}

func (s *knowledgeService) Search(ctx context.Context, req knowledge.SearchRequest) (*knowledge.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = knowledge.DefaultSearchLimit
	}

	hits := knowledgePkg.Search(s.responder.KnowledgeBase(), req.Query, limit)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"hits":       len(hits),
	}).Debug("Knowledge search")

	return &knowledge.SearchResponse{
		Query: req.Query,
		Hits:  hits,
	}, nil
}

// Match reports what the responder would decide for text without picking a
// reply, along with the best pattern of every intent.
func (s *knowledgeService) Match(ctx context.Context, req knowledge.MatchRequest) (*knowledge.MatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := s.responder.BestMatch(req.Text)
	threshold := s.responder.Threshold()

	explain := s.responder.Explain(req.Text)
	for i := range explain {
		explain[i].Score = nlp.RoundScore(explain[i].Score)
	}

	return &knowledge.MatchResponse{
		Text:       req.Text,
		Normalized: nlp.Normalize(req.Text),
		Tag:        best.Tag,
		Score:      nlp.RoundScore(best.Score),
		Threshold:  threshold,
		Accepted:   best.Found() && best.Score >= threshold,
		Explain:    explain,
	}, nil
}
