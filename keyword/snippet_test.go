package keyword

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRelevantSnippet(t *testing.T) {
	t.Run("selects the relevant sentence", func(t *testing.T) {
		text := "The weather was mild all week without interruptions. " +
			"Badgers dig extensive burrows near woodland edges and riverbanks. " +
			"The committee adjourned without reaching any decision."

		snippet := ExtractRelevantSnippet(text, "badger burrows", 120)
		assert.Contains(t, snippet, "Badgers dig extensive burrows")
	})

	t.Run("chosen sentences keep document order", func(t *testing.T) {
		text := "Badgers appear briefly in local folklore. " +
			"Nothing relevant is mentioned in this filler sentence here. " +
			"Badgers dig extensive burrows and line them with dry grass bedding."

		snippet := ExtractRelevantSnippet(text, "badger burrows", 200)
		first := strings.Index(snippet, "Badgers appear")
		second := strings.Index(snippet, "Badgers dig")
		assert.GreaterOrEqual(t, first, 0)
		assert.Greater(t, second, first)
	})

	t.Run("respects max length", func(t *testing.T) {
		text := strings.Repeat("Badgers dig extensive burrows near woodland edges. ", 20)
		snippet := ExtractRelevantSnippet(text, "badger burrows", 150)
		assert.LessOrEqual(t, len(snippet), 160)
	})

	t.Run("short text falls back to prefix", func(t *testing.T) {
		assert.Equal(t, "Tiny note.", ExtractRelevantSnippet("Tiny note.", "anything", 300))
	})

	t.Run("long prefix fallback is truncated with ellipsis", func(t *testing.T) {
		// No sentence punctuation at all, so the whole text is one
		// overlong sentence that cannot fit the budget.
		text := strings.Repeat("word ", 100)
		snippet := ExtractRelevantSnippet(text, "unrelated query", 80)
		assert.True(t, strings.HasSuffix(snippet, "..."))
		assert.LessOrEqual(t, len(snippet), 84)
	})

	t.Run("zero max length uses the default", func(t *testing.T) {
		text := strings.Repeat("Badgers dig extensive burrows near woodland edges. ", 20)
		snippet := ExtractRelevantSnippet(text, "badger burrows", 0)
		assert.NotEmpty(t, snippet)
		assert.LessOrEqual(t, len(snippet), DefaultSnippetLength+10)
	})
}
