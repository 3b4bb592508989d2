package keyword

import (
	"math"
	"sort"
	"strings"

	"github.com/AishSoni/Narada-AI/core"
)

// minRelevance is the score floor below which a document is not returned.
const minRelevance = 0.05

// RankDocuments scores every document with content against the query and
// returns those above the relevance floor, best first.
func RankDocuments(documents []core.Document, query string) []core.SearchResult {
	results := make([]core.SearchResult, 0, len(documents))
	for _, doc := range documents {
		if doc.Content == "" {
			continue
		}

		score := Similarity(query, doc.Content)
		if score <= minRelevance {
			continue
		}

		results = append(results, core.SearchResult{
			ID:       doc.ID,
			Name:     doc.Name,
			Score:    score,
			Content:  doc.Content,
			Snippet:  ExtractRelevantSnippet(doc.Content, query, DefaultSnippetLength),
			Metadata: doc.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// HybridSearch ranks documents and additionally boosts results whose name
// contains the query, then returns the top limit results.
func HybridSearch(documents []core.Document, query string, limit int) []core.SearchResult {
	results := RankDocuments(documents, query)

	queryLower := strings.ToLower(query)
	for i := range results {
		if strings.Contains(strings.ToLower(results[i].Name), queryLower) {
			results[i].Score = math.Min(1.0, results[i].Score+titleMatchBoost)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
