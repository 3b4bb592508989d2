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

package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AishSoni/Narada-AI/ai"
	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/websearch"
	"github.com/panjf2000/ants/v2"
)

// minContentLength is the web result content size under which a page scrape
// is attempted for enrichment.
const minContentLength = 100

// retryBaseDelay is the initial backoff for failed web search calls.
const retryBaseDelay = 500 * time.Millisecond

// Exchange is one prior conversation turn supplied as context.
type Exchange struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// KnowledgeSearcher is the slice of the knowledge store the engine needs.
type KnowledgeSearcher interface {
	GetStack(ctx context.Context, id string) (*core.KnowledgeStack, error)
	ListStacks(ctx context.Context) ([]*core.KnowledgeStack, error)
	SearchDocuments(ctx context.Context, stackID, query string, limit int) ([]core.SearchResult, error)
}

// Engine is the search orchestrator.
type Engine struct {
	chat      ai.ChatModel
	knowledge KnowledgeSearcher // nil when no knowledge store is configured
	web       websearch.Client
	pool      *ants.Pool
	cfg       Config
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithConfig overrides the default retrieval budgets. Zero fields keep their
// defaults.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		e.cfg = cfg.normalized()
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent knowledge lookups.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a search orchestrator. knowledgeStore may be nil, in
// which case stack-scoped searches fail with a stack-not-found error event.
func NewEngine(chat ai.ChatModel, knowledgeStore KnowledgeSearcher, web websearch.Client, opts ...Option) (*Engine, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if web == nil {
		return nil, ErrWebClientRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		chat:      chat,
		knowledge: knowledgeStore,
		web:       web,
		pool:      pool,
		cfg:       DefaultConfig(),
		logger:    slog.Default().With("component", "research-engine"),
	}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	return e, nil
}

// Release shuts down the worker pool. The engine should not be used after
// calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Search runs the full retrieve-evaluate-synthesize loop and streams events
// to onEvent. It never returns an error: every failure surfaces as a
// terminal error event, and exactly one terminal event is produced.
func (e *Engine) Search(ctx context.Context, query string, history []Exchange, stackID string, onEvent EventCallback) {
	em := newEmitter(onEvent)
	defer func() {
		// The event stream is the error boundary; nothing may escape it.
		if r := recover(); r != nil {
			e.logger.Error("search panicked", "query", query, "panic", r)
			em.error("Search failed unexpectedly", ErrorKindSearch)
		}
	}()

	em.phase(PhaseUnderstanding, "Understanding your question...")

	var stack *core.KnowledgeStack
	if stackID != "" {
		var err error
		stack, err = e.resolveStack(ctx, stackID, em)
		if err != nil {
			if errors.Is(err, core.ErrKnowledgeStackNotFound) {
				em.error("Knowledge stack not found", ErrorKindStackNotFound)
			} else {
				e.logger.Error("stack resolution failed", "stack", stackID, "err", err)
				em.error("Failed to access the knowledge stack", ErrorKindSearch)
			}
			return
		}
	}

	// Decomposition happens exactly once per query; both retrieval paths
	// consume its output so cited sources stay topically consistent.
	terms := e.decompose(ctx, query, history)
	em.thinking(fmt.Sprintf("Searching for: %s", joinSearchQueries(terms)))

	var knowledgeResults []core.SearchResult
	if stack != nil {
		em.phase(PhaseRetrieving, "Searching your knowledge stack...")
		knowledgeResults = e.searchKnowledge(ctx, stack, terms, nil, em)
	}

	var webResults []websearch.Result
	seenURLs := make(map[string]bool)

	for attempt := 1; ; attempt++ {
		em.phase(PhaseRetrieving, "Searching the web...")
		webResults = e.searchWeb(ctx, terms, webResults, seenURLs, em)

		em.phase(PhaseEvaluating, "Evaluating the evidence...")
		confidence := e.evaluateConfidence(ctx, query, knowledgeResults, webResults)
		em.thinking(fmt.Sprintf("Answer confidence: %.2f", confidence))

		if confidence >= e.cfg.EarlyTerminationConfidence {
			break
		}
		if confidence >= e.cfg.MinAnswerConfidence || attempt >= e.cfg.MaxSearchAttempts {
			// Exhausting the budget is not a failure; synthesis proceeds
			// with whatever evidence exists.
			break
		}

		em.thinking("Confidence is low, refining the search...")
		terms = e.refineQueries(ctx, query, terms)
		if stack != nil {
			knowledgeResults = e.searchKnowledge(ctx, stack, terms, knowledgeResults, em)
		}
	}

	e.enrichThinContent(ctx, webResults)

	em.phase(PhaseSynthesizing, "Synthesizing your answer...")
	answer, err := e.chat.Generate(ctx, synthesizeSystem,
		synthesizeUserPrompt(query, history, knowledgeResults, webResults))
	if err != nil {
		e.logger.Error("synthesis failed", "query", query, "err", err)
		em.error("Failed to synthesize an answer", ErrorKindSearch)
		return
	}

	if len(knowledgeResults) > 0 {
		answer = fmt.Sprintf("Based on your knowledge stack %q and web sources:\n\n%s", stack.Name, answer)
	}

	followUps := e.followUpQuestions(ctx, query, answer)
	sources := buildSources(knowledgeResults, webResults, stack)

	em.phase(PhaseComplete, "Search complete")
	em.finalResult(answer, sources, followUps)
}

// resolveStack looks up the requested stack. An unresolvable id falls back to
// the only existing stack when exactly one exists; otherwise the not-found
// error propagates.
func (e *Engine) resolveStack(ctx context.Context, stackID string, em *emitter) (*core.KnowledgeStack, error) {
	if e.knowledge == nil {
		return nil, core.ErrKnowledgeStackNotFound
	}

	stack, err := e.knowledge.GetStack(ctx, stackID)
	if err == nil {
		return stack, nil
	}
	if !errors.Is(err, core.ErrKnowledgeStackNotFound) {
		return nil, err
	}

	stacks, listErr := e.knowledge.ListStacks(ctx)
	if listErr != nil {
		return nil, listErr
	}
	if len(stacks) != 1 {
		return nil, core.ErrKnowledgeStackNotFound
	}

	only := stacks[0]
	e.logger.Warn("requested stack not found, falling back to the only stack",
		"requested", stackID, "using", only.ID)
	em.thinking(fmt.Sprintf("Knowledge stack not found, using %q instead", only.Name))
	return only, nil
}

// decompose turns the query into bounded search terms. Failure degrades to a
// single verbatim query; decomposition is an optimization, not a dependency.
func (e *Engine) decompose(ctx context.Context, query string, history []Exchange) []core.ExtractedQuery {
	verbatim := []core.ExtractedQuery{{Question: query, SearchQuery: query}}

	raw, err := e.chat.GenerateJSON(ctx,
		fmt.Sprintf(decomposeSystem, e.cfg.MaxSearchQueries),
		decomposeUserPrompt(query, history))
	if err != nil {
		e.logger.Warn("query decomposition failed, using the query verbatim", "err", err)
		return verbatim
	}

	terms := parseQueries(raw)
	if len(terms) == 0 {
		e.logger.Warn("query decomposition returned nothing usable, using the query verbatim")
		return verbatim
	}
	if len(terms) > e.cfg.MaxSearchQueries {
		terms = terms[:e.cfg.MaxSearchQueries]
	}
	return terms
}

// refineQueries asks for differently angled search terms after a
// low-confidence round. Failure keeps the current terms.
func (e *Engine) refineQueries(ctx context.Context, query string, tried []core.ExtractedQuery) []core.ExtractedQuery {
	raw, err := e.chat.GenerateJSON(ctx,
		fmt.Sprintf(refineSystem, e.cfg.MaxSearchQueries),
		refineUserPrompt(query, tried))
	if err != nil {
		e.logger.Warn("query refinement failed, retrying with current terms", "err", err)
		return tried
	}

	terms := parseQueries(raw)
	if len(terms) == 0 {
		return tried
	}
	if len(terms) > e.cfg.MaxSearchQueries {
		terms = terms[:e.cfg.MaxSearchQueries]
	}
	return terms
}

// searchKnowledge queries the stack for every term concurrently and merges
// the results into existing: deduplicated by result id with the first
// occurrence winning, sorted by score descending, truncated to the budget.
// Lookup failures degrade to web-only evidence.
func (e *Engine) searchKnowledge(ctx context.Context, stack *core.KnowledgeStack, terms []core.ExtractedQuery, existing []core.SearchResult, em *emitter) []core.SearchResult {
	perTerm := make([][]core.SearchResult, len(terms))
	var wg sync.WaitGroup
	failed := false
	var mu sync.Mutex

	for i, term := range terms {
		i, term := i, term
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			results, err := e.knowledge.SearchDocuments(ctx, stack.ID, term.SearchQuery, e.cfg.MaxKnowledgeResults)
			if err != nil {
				e.logger.Error("knowledge stack lookup failed",
					"stack", stack.ID, "query", term.SearchQuery, "err", err)
				mu.Lock()
				failed = true
				mu.Unlock()
				return
			}
			perTerm[i] = results
		})
		if err != nil {
			wg.Done()
			e.logger.Error("failed to schedule knowledge lookup", "err", err)
		}
	}
	wg.Wait()

	// Merge in term order so deduplication is deterministic regardless of
	// completion order.
	merged := existing
	seen := make(map[string]bool, len(merged))
	for _, r := range merged {
		seen[r.ID] = true
	}
	for _, results := range perTerm {
		for _, r := range results {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > e.cfg.MaxKnowledgeResults {
		merged = merged[:e.cfg.MaxKnowledgeResults]
	}

	switch {
	case len(merged) > 0:
		em.thinking(fmt.Sprintf("Found %d relevant documents in %s (scores: %s)",
			len(merged), stack.Name, joinScores(merged)))
	case failed:
		em.thinking("Knowledge stack search failed. Proceeding with web search only.")
	default:
		em.thinking(fmt.Sprintf("No relevant documents found in %s. Proceeding with web search.", stack.Name))
	}
	return merged
}

// searchWeb runs every term against the provider with bounded retries and
// appends new results deduplicated by URL.
func (e *Engine) searchWeb(ctx context.Context, terms []core.ExtractedQuery, accumulated []websearch.Result, seenURLs map[string]bool, em *emitter) []websearch.Result {
	for _, term := range terms {
		var resp *websearch.Response
		err := retryWithBackoff(ctx, func() error {
			var searchErr error
			resp, searchErr = e.web.Search(ctx, term.SearchQuery, websearch.Options{
				Limit: e.cfg.MaxSourcesPerSearch,
			})
			return searchErr
		}, e.cfg.MaxRetries, retryBaseDelay)
		if err != nil {
			e.logger.Error("web search failed for term",
				"provider", e.web.Provider(), "query", term.SearchQuery, "err", err)
			continue
		}

		added := 0
		for _, r := range resp.Results {
			if seenURLs[r.URL] {
				continue
			}
			seenURLs[r.URL] = true
			accumulated = append(accumulated, r)
			added++
		}
		if added > 0 {
			em.thinking(fmt.Sprintf("Found %d web sources for %q", added, term.SearchQuery))
		}
	}
	return accumulated
}

// evaluateConfidence estimates how well the evidence answers the question.
// The scoring method is a model call; a parse failure lands in the middle of
// the band so it neither terminates early nor forces extra rounds on its own.
func (e *Engine) evaluateConfidence(ctx context.Context, query string, knowledge []core.SearchResult, web []websearch.Result) float64 {
	if len(knowledge) == 0 && len(web) == 0 {
		return 0
	}

	raw, err := e.chat.GenerateJSON(ctx, confidenceSystem,
		confidenceUserPrompt(query, knowledge, web))
	if err != nil {
		e.logger.Warn("confidence evaluation failed", "err", err)
		return 0.5
	}

	var parsed struct {
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		e.logger.Warn("confidence response was not parseable", "raw", raw, "err", err)
		return 0.5
	}

	if parsed.Confidence < 0 {
		return 0
	}
	if parsed.Confidence > 1 {
		return 1
	}
	return parsed.Confidence
}

// enrichThinContent scrapes pages whose search result carried too little
// content to synthesize from. Best-effort; failures leave the snippet.
func (e *Engine) enrichThinContent(ctx context.Context, results []websearch.Result) {
	scraped := 0
	for i := range results {
		if len(results[i].Content) >= minContentLength {
			continue
		}
		if scraped >= e.cfg.MaxSourcesPerSearch {
			break
		}
		scraped++

		page, err := e.web.ScrapeURL(ctx, results[i].URL, e.cfg.ScrapeTimeout)
		if err != nil {
			e.logger.Debug("scrape failed, keeping snippet",
				"url", results[i].URL, "err", err)
			continue
		}
		if len(page.Content) > len(results[i].Content) {
			results[i].Content = page.Content
		}
	}
}

// followUpQuestions suggests what to ask next. Best-effort; failures return
// no suggestions.
func (e *Engine) followUpQuestions(ctx context.Context, query, answer string) []string {
	raw, err := e.chat.GenerateJSON(ctx, followUpSystem, followUpUserPrompt(query, answer))
	if err != nil {
		e.logger.Debug("follow-up generation failed", "err", err)
		return nil
	}

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	if len(parsed.Questions) > 3 {
		parsed.Questions = parsed.Questions[:3]
	}
	return parsed.Questions
}

// buildSources assembles the cited source list, knowledge-stack entries
// first under the knowledge:// scheme, then web sources.
func buildSources(knowledge []core.SearchResult, web []websearch.Result, stack *core.KnowledgeStack) []core.Source {
	sources := make([]core.Source, 0, len(knowledge)+len(web))
	for _, r := range knowledge {
		sources = append(sources, core.Source{
			URL:     core.KnowledgeURLScheme + r.Name,
			Title:   fmt.Sprintf("%s (from %s)", r.Name, stack.Name),
			Content: r.Content,
			Quality: r.Score,
			Summary: r.Snippet,
		})
	}
	for _, r := range web {
		sources = append(sources, core.Source{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Quality: r.Score,
			Summary: r.Description,
		})
	}
	return sources
}

func parseQueries(raw string) []core.ExtractedQuery {
	var parsed struct {
		Queries []core.ExtractedQuery `json:"queries"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	queries := parsed.Queries[:0]
	for _, q := range parsed.Queries {
		if strings.TrimSpace(q.SearchQuery) == "" {
			continue
		}
		if q.Question == "" {
			q.Question = q.SearchQuery
		}
		queries = append(queries, q)
	}
	return queries
}

func joinSearchQueries(terms []core.ExtractedQuery) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.SearchQuery
	}
	return strings.Join(parts, ", ")
}

func joinScores(results []core.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("%.2f", r.Score)
	}
	return strings.Join(parts, ", ")
}
