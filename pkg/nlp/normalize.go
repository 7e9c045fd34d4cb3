package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lower-cases text and turns every rune that is not a letter or a
// number into a separator, collapsing whitespace. Letter classification is
// Unicode-aware so Devanagari and other scripts survive. Combining marks are
// not letters, so decomposed accents are dropped rather than composed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// cases.Caser keeps state, one per call
	lowered := cases.Lower(language.Und).String(text)

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return ' '
	}, lowered)

	return strings.Join(strings.Fields(cleaned), " ")
}

// Tokens returns the set of unique whitespace-delimited tokens of already
// normalized text.
func Tokens(normalized string) map[string]struct{} {
	words := strings.Fields(normalized)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
