package openai

import "regexp"

var (
	// Missing opening quote before a key, e.g. `{ question": "..."` or `, searchQuery": "..."`.
	missingKeyQuote = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)"\s*:`)
	// Trailing comma before a closing brace or bracket.
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// repairJSON fixes the JSON defects LLMs most commonly produce: a dropped
// opening quote on an object key and trailing commas. It never touches
// well-formed input.
func repairJSON(s string) string {
	s = missingKeyQuote.ReplaceAllString(s, `$1"$2":`)
	return trailingComma.ReplaceAllString(s, `$1`)
}
