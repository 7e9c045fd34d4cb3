package nlp

// ScoreCombiner merges the token-overlap and edit-distance scores of one
// pattern comparison.
type ScoreCombiner func(overlap, edit float64) float64

// MaxScore keeps the stronger of the two scorers.
func MaxScore(overlap, edit float64) float64 {
	return max(overlap, edit)
}

type patternEntry struct {
	tag     string
	pattern string
	tokens  map[string]struct{}
	runes   []rune
}

type Matcher struct {
	kb      *KnowledgeBase
	entries []patternEntry
	combine ScoreCombiner
}

type MatcherOption func(*Matcher)

func WithCombiner(combine ScoreCombiner) MatcherOption {
	return func(m *Matcher) {
		if combine != nil {
			m.combine = combine
		}
	}
}

func NewMatcher(kb *KnowledgeBase, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		kb:      kb,
		combine: MaxScore,
	}

	for _, intent := range kb.intents {
		for _, pattern := range intent.Patterns {
			normalized := Normalize(pattern)
			m.entries = append(m.entries, patternEntry{
				tag:     intent.Tag,
				pattern: pattern,
				tokens:  Tokens(normalized),
				runes:   []rune(normalized),
			})
		}
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Matcher) score(tokens map[string]struct{}, runes []rune, entry patternEntry) float64 {
	return m.combine(tokenOverlap(tokens, entry.tokens), editSimilarity(runes, entry.runes))
}

// BestMatch walks intents and patterns in declared order and keeps the first
// pair with the highest score. Nothing scoring above zero yields an empty tag.
func (m *Matcher) BestMatch(text string) MatchResult {
	normalized := Normalize(text)
	tokens, runes := Tokens(normalized), []rune(normalized)

	best := MatchResult{}
	for _, entry := range m.entries {
		if s := m.score(tokens, runes, entry); s > best.Score {
			best = MatchResult{Tag: entry.tag, Score: s}
		}
	}

	return best
}

// Explain returns the best pattern of every intent, in declared order.
func (m *Matcher) Explain(text string) []IntentScore {
	normalized := Normalize(text)
	tokens, runes := Tokens(normalized), []rune(normalized)

	scores := make([]IntentScore, 0, m.kb.Len())
	index := make(map[string]int, m.kb.Len())
	for _, entry := range m.entries {
		s := m.score(tokens, runes, entry)
		idx, seen := index[entry.tag]
		if !seen {
			index[entry.tag] = len(scores)
			scores = append(scores, IntentScore{Tag: entry.tag, Pattern: entry.pattern, Score: s})
			continue
		}
		if s > scores[idx].Score {
			scores[idx].Pattern = entry.pattern
			scores[idx].Score = s
		}
	}

	return scores
}

func (m *Matcher) KnowledgeBase() *KnowledgeBase {
	return m.kb
}
