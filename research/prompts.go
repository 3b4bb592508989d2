package research

import (
	"fmt"
	"strings"

	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/websearch"
)

const (
	// contextPreviewLength bounds how much of a prior answer is replayed
	// into prompts.
	contextPreviewLength = 500
	// sourcePreviewLength bounds how much of a single source is shown to
	// the model during evaluation and synthesis.
	sourcePreviewLength = 2500
	// maxSourcesInPrompt bounds how many sources a single prompt carries.
	maxSourcesInPrompt = 10
)

const decomposeSystem = `You are a research assistant. Break the user's question into at most %d focused search queries. Respond with a JSON object of the form {"queries": [{"question": "...", "searchQuery": "..."}]} where "question" restates one sub-intent and "searchQuery" is a short web search string for it. Respond with JSON only.`

const confidenceSystem = `You judge whether collected evidence answers a question. Respond with a JSON object {"confidence": <number between 0 and 1>} where 1 means the evidence fully answers the question. Respond with JSON only.`

const refineSystem = `You improve search queries that returned weak evidence. Given the original question and the queries already tried, respond with a JSON object {"queries": [{"question": "...", "searchQuery": "..."}]} containing at most %d new, differently angled search queries. Respond with JSON only.`

const synthesizeSystem = `You are a research assistant. Answer the user's question using only the provided sources. Cite facts by mentioning the source title. If the sources do not fully answer the question, say so plainly instead of speculating.`

const followUpSystem = `Given a question and its answer, suggest at most 3 short follow-up questions the user might ask next. Respond with a JSON object {"questions": ["..."]}. Respond with JSON only.`

func decomposeUserPrompt(query string, history []Exchange) string {
	var b strings.Builder
	writeHistory(&b, history)
	fmt.Fprintf(&b, "Question: %s", query)
	return b.String()
}

func confidenceUserPrompt(query string, knowledge []core.SearchResult, web []websearch.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nEvidence:\n", query)
	writeEvidence(&b, knowledge, web)
	return b.String()
}

func refineUserPrompt(query string, tried []core.ExtractedQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nAlready tried:\n", query)
	for _, t := range tried {
		fmt.Fprintf(&b, "- %s\n", t.SearchQuery)
	}
	return b.String()
}

func synthesizeUserPrompt(query string, history []Exchange, knowledge []core.SearchResult, web []websearch.Result) string {
	var b strings.Builder
	writeHistory(&b, history)
	fmt.Fprintf(&b, "Question: %s\n\nSources:\n", query)
	writeEvidence(&b, knowledge, web)
	return b.String()
}

func followUpUserPrompt(query, answer string) string {
	return fmt.Sprintf("Question: %s\n\nAnswer: %s", query, preview(answer, sourcePreviewLength))
}

func writeHistory(b *strings.Builder, history []Exchange) {
	if len(history) == 0 {
		return
	}
	b.WriteString("Previous conversation:\n")
	for _, turn := range history {
		fmt.Fprintf(b, "Q: %s\nA: %s\n", turn.Query, preview(turn.Response, contextPreviewLength))
	}
	b.WriteString("\n")
}

// writeEvidence lists knowledge-stack excerpts ahead of web sources.
func writeEvidence(b *strings.Builder, knowledge []core.SearchResult, web []websearch.Result) {
	n := 0
	for _, r := range knowledge {
		if n >= maxSourcesInPrompt {
			return
		}
		n++
		fmt.Fprintf(b, "[%d] %s (knowledge stack, score %.2f)\n%s\n\n",
			n, r.Name, r.Score, preview(r.Content, sourcePreviewLength))
	}
	for _, r := range web {
		if n >= maxSourcesInPrompt {
			return
		}
		n++
		fmt.Fprintf(b, "[%d] %s (%s)\n%s\n\n",
			n, r.Title, r.URL, preview(r.Content, sourcePreviewLength))
	}
}

func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
