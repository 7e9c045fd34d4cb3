package nlp

type MatchResult struct {
	Tag   string  `json:"tag,omitempty"`
	Score float64 `json:"score"`
}

// Found reports whether the matcher resolved an intent at all, regardless of
// the confidence threshold.
func (m MatchResult) Found() bool {
	return m.Tag != ""
}

type IntentScore struct {
	Tag     string  `json:"tag"`
	Pattern string  `json:"pattern"`
	Score   float64 `json:"score"`
}

type DecisionKind string

const (
	DecisionMatched  DecisionKind = "matched"
	DecisionEmpty    DecisionKind = "empty"
	DecisionFallback DecisionKind = "fallback"
)

type Decision struct {
	Kind  DecisionKind `json:"kind"`
	Reply string       `json:"reply"`
	Tag   string       `json:"tag,omitempty"`
	Score float64      `json:"score"`
}

// HasScore is false only for empty messages, which never reach the matcher.
func (d Decision) HasScore() bool {
	return d.Kind != DecisionEmpty
}

type IResponder interface {
	Respond(text string) Decision
	BestMatch(text string) MatchResult
	Explain(text string) []IntentScore
	Threshold() float64
	KnowledgeBase() *KnowledgeBase
}

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}
