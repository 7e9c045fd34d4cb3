package nlp

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// DefaultConfidenceThreshold is the lowest score accepted as a confident
// match. Tuned by hand against the shipped knowledge base.
const DefaultConfidenceThreshold = 0.42

const (
	DefaultEmptyReply    = "नमस्कार! तुमचा मेसेज रिकामा आला. कृपया प्रश्न लिहा — उदा. 'प्राईस काय?'"
	DefaultFallbackReply = "समजलं. कृपया थोडं स्पष्ट लिहाल का? (उदा. 'किंमत', 'कसे करायचे', 'सपोर्ट')."
)

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

type Responder struct {
	matcher       *Matcher
	threshold     float64
	random        RandomSource
	emptyReply    string
	fallbackReply string
}

type ResponderOption func(*Responder)

func WithThreshold(threshold float64) ResponderOption {
	return func(r *Responder) {
		r.threshold = threshold
	}
}

func WithRandomSource(src RandomSource) ResponderOption {
	return func(r *Responder) {
		if src != nil {
			r.random = src
		}
	}
}

func WithFixedReplies(empty, fallback string) ResponderOption {
	return func(r *Responder) {
		if empty != "" {
			r.emptyReply = empty
		}
		if fallback != "" {
			r.fallbackReply = fallback
		}
	}
}

func NewResponder(matcher *Matcher, opts ...ResponderOption) *Responder {
	r := &Responder{
		matcher:       matcher,
		threshold:     DefaultConfidenceThreshold,
		random:        globalRand{},
		emptyReply:    DefaultEmptyReply,
		fallbackReply: DefaultFallbackReply,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Responder) Respond(text string) Decision {
	q := strings.TrimSpace(text)
	if q == "" {
		return Decision{Kind: DecisionEmpty, Reply: r.emptyReply}
	}

	match := r.matcher.BestMatch(q)
	score := RoundScore(match.Score)

	if !match.Found() || match.Score < r.threshold {
		return Decision{Kind: DecisionFallback, Reply: r.fallbackReply, Score: score}
	}

	return Decision{
		Kind:  DecisionMatched,
		Reply: r.pick(r.matcher.kb.replies(match.Tag)),
		Tag:   match.Tag,
		Score: score,
	}
}

func (r *Responder) pick(replies []string) string {
	if len(replies) == 0 {
		return r.fallbackReply
	}
	return replies[r.random.IntN(len(replies))]
}

func (r *Responder) BestMatch(text string) MatchResult {
	return r.matcher.BestMatch(text)
}

func (r *Responder) Explain(text string) []IntentScore {
	return r.matcher.Explain(text)
}

func (r *Responder) Threshold() float64 {
	return r.threshold
}

func (r *Responder) KnowledgeBase() *KnowledgeBase {
	return r.matcher.kb
}

// RoundScore rounds the exact binary value of score to two decimals, with
// exact halves going up.
func RoundScore(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return score
	}

	// only odd multiples of 1/8 sit exactly on a hundredths midpoint
	if eighths := score * 8; eighths == math.Trunc(eighths) && math.Mod(eighths, 2) != 0 {
		return math.Ceil(score*100) / 100
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(score, 'f', 2, 64), 64)
	if err != nil {
		return score
	}
	return rounded
}
