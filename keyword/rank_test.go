package keyword

import (
	"testing"

	"github.com/AishSoni/Narada-AI/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []core.Document {
	return []core.Document{
		{
			ID:   "doc-solar",
			Name: "solar-report.txt",
			Content: "Solar panel efficiency has improved greatly over recent decades. " +
				"Most installations now exceed twenty percent conversion rates.",
		},
		{
			ID:   "doc-wind",
			Name: "wind-notes.md",
			Content: "Wind turbines installed offshore generate power more consistently " +
				"than onshore farms because wind speeds are steadier at sea.",
		},
		{
			ID:      "doc-recipe",
			Name:    "sourdough.txt",
			Content: "Mix flour and water, wait for the starter to bubble, then bake.",
		},
		{
			ID:   "doc-empty",
			Name: "empty.txt",
		},
	}
}

func TestRankDocuments(t *testing.T) {
	results := RankDocuments(testDocs(), "solar panel efficiency")

	require.NotEmpty(t, results)
	assert.Equal(t, "doc-solar", results[0].ID)
	assert.NotEmpty(t, results[0].Snippet)

	for _, r := range results {
		assert.NotEqual(t, "doc-empty", r.ID)
		assert.NotEqual(t, "doc-recipe", r.ID)
		assert.Greater(t, r.Score, minRelevance)
	}
	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
}

func TestRankDocumentsNoMatches(t *testing.T) {
	results := RankDocuments(testDocs(), "quantum chromodynamics")
	assert.Empty(t, results)
}

func TestHybridSearch(t *testing.T) {
	t.Run("title match boosts ranking", func(t *testing.T) {
		docs := []core.Document{
			{
				ID:      "doc-a",
				Name:    "misc.txt",
				Content: "Offshore wind speeds are steadier, so turbines at sea generate more wind power.",
			},
			{
				ID:      "doc-b",
				Name:    "wind turbines.txt",
				Content: "Turbines convert wind into power, and offshore wind speeds are steadier at sea.",
			},
		}

		results := HybridSearch(docs, "wind turbines", 5)
		require.Len(t, results, 2)
		assert.Equal(t, "doc-b", results[0].ID)
	})

	t.Run("limit is honored", func(t *testing.T) {
		results := HybridSearch(testDocs(), "power generation offshore wind solar panels", 1)
		assert.LessOrEqual(t, len(results), 1)
	})
}
