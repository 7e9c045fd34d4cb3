package knowledge

import (
	knowledgePkg "WaiAutoReply/pkg/knowledge"
	"WaiAutoReply/pkg/nlp"
)

type IntentsResponse struct {
	Count   int          `json:"count"`
	Intents []nlp.Intent `json:"intents"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"required,max=256"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type SearchResponse struct {
	Query string                   `json:"query"`
	Hits  []knowledgePkg.SearchHit `json:"hits"`
}

type MatchRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

type MatchResponse struct {
	Text       string            `json:"text"`
	Normalized string            `json:"normalized"`
	Tag        string            `json:"tag,omitempty"`
	Score      float64           `json:"score"`
	Threshold  float64           `json:"threshold"`
	Accepted   bool              `json:"accepted"`
	Explain    []nlp.IntentScore `json:"explain"`
}

const DefaultSearchLimit = 20
