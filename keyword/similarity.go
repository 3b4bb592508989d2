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
	"strings"
)

// Boost increments applied on top of the term-frequency cosine score.
const (
	exactPhraseBoost = 0.3
	subPhraseBoost   = 0.1
	titleMatchBoost  = 0.2
)

// Similarity scores text against query in [0,1] using cosine similarity over
// raw term-frequency vectors, boosted for phrase matches.
func Similarity(query, text string) float64 {
	queryTokens := Tokenize(query)
	textTokens := Tokenize(text)
	if len(queryTokens) == 0 || len(textTokens) == 0 {
		return 0
	}

	queryFreq := termFrequencies(queryTokens)
	textFreq := termFrequencies(textTokens)

	var dot, queryMag, textMag float64
	for term, qw := range queryFreq {
		dot += float64(qw) * float64(textFreq[term])
		queryMag += float64(qw) * float64(qw)
	}
	for _, tw := range textFreq {
		textMag += float64(tw) * float64(tw)
	}
	if queryMag == 0 || textMag == 0 {
		return 0
	}
	similarity := dot / (math.Sqrt(queryMag) * math.Sqrt(textMag))

	queryLower := strings.ToLower(query)
	textLower := strings.ToLower(text)

	// The full query appearing verbatim outranks any sub-phrase match.
	if strings.Contains(textLower, queryLower) {
		return math.Min(1.0, similarity+exactPhraseBoost)
	}

	for _, phrase := range splitPhrases(queryLower) {
		if strings.Contains(textLower, phrase) {
			return math.Min(1.0, similarity+subPhraseBoost)
		}
	}

	return similarity
}

// splitPhrases breaks the query on punctuation and keeps trimmed pieces longer
// than three characters.
func splitPhrases(query string) []string {
	parts := strings.FieldsFunc(query, func(r rune) bool {
		switch r {
		case ',', '.', '!', '?', ';':
			return true
		}
		return false
	})

	phrases := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) > 3 {
			phrases = append(phrases, p)
		}
	}
	return phrases
}
