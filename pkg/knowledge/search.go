package knowledge

import (
	"WaiAutoReply/pkg/nlp"
	"strings"

	"github.com/sahilm/fuzzy"
)

type SearchHit struct {
	Tag     string `json:"tag"`
	Pattern string `json:"pattern"`
	Score   int    `json:"score"`
}

type patternRef struct {
	tag     string
	pattern string
}

type patternSource []patternRef

func (p patternSource) String(i int) string { return p[i].pattern }
func (p patternSource) Len() int            { return len(p) }

// Search ranks every pattern of kb against query with subsequence fuzzy
// matching, best first. limit <= 0 returns all hits.
func Search(kb *nlp.KnowledgeBase, query string, limit int) []SearchHit {
	query = strings.TrimSpace(query)
	if kb == nil || query == "" {
		return []SearchHit{}
	}

	var source patternSource
	for _, intent := range kb.Intents() {
		for _, pattern := range intent.Patterns {
			source = append(source, patternRef{tag: intent.Tag, pattern: pattern})
		}
	}

	matches := fuzzy.FindFrom(query, source)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	hits := make([]SearchHit, 0, len(matches))
	for _, m := range matches {
		ref := source[m.Index]
		hits = append(hits, SearchHit{
			Tag:     ref.tag,
			Pattern: ref.pattern,
			Score:   m.Score,
		})
	}

	return hits
}
