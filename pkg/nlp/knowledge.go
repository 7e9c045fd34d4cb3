package nlp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyKnowledgeBase = errors.New("knowledge base has no intents")
	ErrEmptyTag           = errors.New("intent tag is empty")
	ErrDuplicateTag       = errors.New("duplicate intent tag")
	ErrNoPatterns         = errors.New("intent has no patterns")
	ErrNoReplies          = errors.New("intent has no replies")
)

type Intent struct {
	Tag      string   `json:"tag" yaml:"tag" validate:"required"`
	Patterns []string `json:"patterns" yaml:"patterns" validate:"required,min=1,dive,required"`
	Replies  []string `json:"replies" yaml:"replies" validate:"required,min=1,dive,required"`
}

// KnowledgeBase is the ordered, read-only set of intents. It is built once and
// shared by every request.
type KnowledgeBase struct {
	intents []Intent
	byTag   map[string]int
}

func NewKnowledgeBase(intents []Intent) (*KnowledgeBase, error) {
	if len(intents) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	kb := &KnowledgeBase{
		intents: make([]Intent, 0, len(intents)),
		byTag:   make(map[string]int, len(intents)),
	}

	for i, intent := range intents {
		tag := strings.TrimSpace(intent.Tag)
		if tag == "" {
			return nil, fmt.Errorf("intent #%d: %w", i, ErrEmptyTag)
		}
		if _, exists := kb.byTag[tag]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTag, tag)
		}
		if len(nonEmpty(intent.Patterns)) == 0 {
			return nil, fmt.Errorf("intent %q: %w", tag, ErrNoPatterns)
		}
		if len(nonEmpty(intent.Replies)) == 0 {
			return nil, fmt.Errorf("intent %q: %w", tag, ErrNoReplies)
		}

		kb.byTag[tag] = len(kb.intents)
		kb.intents = append(kb.intents, Intent{
			Tag:      tag,
			Patterns: nonEmpty(intent.Patterns),
			Replies:  nonEmpty(intent.Replies),
		})
	}

	return kb, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// Intents returns a copy of the intents in declared order.
func (kb *KnowledgeBase) Intents() []Intent {
	out := make([]Intent, len(kb.intents))
	for i, intent := range kb.intents {
		out[i] = intent.clone()
	}
	return out
}

func (kb *KnowledgeBase) Find(tag string) (Intent, bool) {
	idx, ok := kb.byTag[tag]
	if !ok {
		return Intent{}, false
	}
	return kb.intents[idx].clone(), true
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.intents)
}

// replies skips the copy, callers must not modify the slice.
func (kb *KnowledgeBase) replies(tag string) []string {
	idx, ok := kb.byTag[tag]
	if !ok {
		return nil
	}
	return kb.intents[idx].Replies
}

func (i Intent) clone() Intent {
	return Intent{
		Tag:      i.Tag,
		Patterns: append([]string(nil), i.Patterns...),
		Replies:  append([]string(nil), i.Replies...),
	}
}
