package keyword

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "this": {}, "but": {},
	"they": {}, "have": {}, "had": {}, "what": {}, "said": {}, "each": {},
	"which": {}, "their": {}, "time": {}, "if": {}, "up": {}, "out": {},
	"many": {}, "then": {}, "them": {}, "these": {}, "so": {}, "some": {},
	"her": {}, "would": {}, "make": {}, "like": {}, "into": {}, "him": {},
	"two": {}, "more": {}, "go": {}, "no": {}, "way": {}, "could": {},
	"my": {}, "than": {}, "first": {}, "been": {}, "call": {}, "who": {},
	"oil": {}, "sit": {}, "now": {}, "find": {}, "down": {}, "day": {},
	"did": {}, "get": {}, "come": {}, "made": {}, "may": {}, "part": {},
}

// Tokenize lowercases the text, replaces punctuation with spaces, and drops
// tokens of two characters or fewer plus a fixed stop-word set.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := fields[:0]
	for _, w := range fields {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func termFrequencies(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}
