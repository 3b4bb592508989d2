// Copyright 2025 Narada AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keyword

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultSnippetLength bounds extracted snippets.
const DefaultSnippetLength = 300

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

type scoredSentence struct {
	text  string
	score float64
	index int
}

// ExtractRelevantSnippet picks the sentences most relevant to the query and
// assembles them, in their original order, into a snippet of at most
// maxLength characters. A maxLength of 0 or less uses DefaultSnippetLength.
// If fewer than 50 characters of snippet could be assembled, it falls back to
// a raw prefix of the text.
func ExtractRelevantSnippet(text, query string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSnippetLength
	}

	queryTokens := Tokenize(query)
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return truncate(text, maxLength)
	}

	scored := make([]scoredSentence, 0, len(sentences))
	for i, sentence := range sentences {
		sentenceTokens := termFrequencies(Tokenize(sentence))

		var score float64
		for _, term := range queryTokens {
			if sentenceTokens[term] == 0 {
				continue
			}
			score++
			// Bonus when the term appears at a whole-word boundary, not
			// just inside a longer word.
			if wordBoundary(term).MatchString(sentence) {
				score += 0.5
			}
		}
		scored = append(scored, scoredSentence{text: sentence, score: score, index: i})
	}

	// Near-equal scores prefer earlier sentences.
	sort.SliceStable(scored, func(i, j int) bool {
		if math.Abs(scored[i].score-scored[j].score) < 0.1 {
			return scored[i].index < scored[j].index
		}
		return scored[i].score > scored[j].score
	})

	// Greedily take top sentences until the budget runs out, then restore
	// the original document order among the chosen ones.
	var chosen []scoredSentence
	used := 0
	for _, s := range scored {
		if used+len(s.text) > maxLength {
			break
		}
		chosen = append(chosen, s)
		used += len(s.text) + 1
	}
	sort.Slice(chosen, func(i, j int) bool {
		return chosen[i].index < chosen[j].index
	})

	var b strings.Builder
	for _, s := range chosen {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.text)
		b.WriteByte('.')
	}

	snippet := strings.TrimSpace(b.String())
	if len(snippet) < 50 {
		return truncate(text, maxLength)
	}
	return snippet
}

// splitSentences breaks text on sentence punctuation and keeps trimmed pieces
// longer than ten characters.
func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 10 {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func wordBoundary(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

func truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[:maxLength]) + "..."
}
