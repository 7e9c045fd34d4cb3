package locale

import (
	"WaiAutoReply/pkg/nlp"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	MessageEmpty    = "EmptyMessage"
	MessageFallback = "LowConfidence"
)

var catalog = map[language.Tag][]*i18n.Message{
	language.Marathi: {
		{ID: MessageEmpty, Other: nlp.DefaultEmptyReply},
		{ID: MessageFallback, Other: nlp.DefaultFallbackReply},
	},
	language.English: {
		{ID: MessageEmpty, Other: "Hello! Your message was empty. Please type a question, e.g. 'what is the price?'"},
		{ID: MessageFallback, Other: "Got it. Could you write a little more clearly? (e.g. 'price', 'how to', 'support')."},
	},
}

// ITranslator resolves the fixed replies that do not come from the knowledge
// base.
type ITranslator interface {
	Message(lang, id string) string
	FixedReply(kind nlp.DecisionKind, lang string) (string, bool)
}

type translator struct {
	bundle      *i18n.Bundle
	defaultLang string
}

func New(defaultLang string) (ITranslator, error) {
	bundle := i18n.NewBundle(language.Marathi)
	for tag, messages := range catalog {
		if err := bundle.AddMessages(tag, messages...); err != nil {
			return nil, err
		}
	}

	if defaultLang == "" {
		defaultLang = language.Marathi.String()
	}

	return &translator{
		bundle:      bundle,
		defaultLang: defaultLang,
	}, nil
}

func (t *translator) Message(lang, id string) string {
	localizer := i18n.NewLocalizer(t.bundle, lang, t.defaultLang)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return ""
	}
	return msg
}

// FixedReply returns the localized text for empty and fallback decisions.
func (t *translator) FixedReply(kind nlp.DecisionKind, lang string) (string, bool) {
	switch kind {
	case nlp.DecisionEmpty:
		return t.Message(lang, MessageEmpty), true
	case nlp.DecisionFallback:
		return t.Message(lang, MessageFallback), true
	default:
		return "", false
	}
}
