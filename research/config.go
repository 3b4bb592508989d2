package research

import "time"

// Config bounds the orchestrator's retrieval loop.
type Config struct {
	// MaxSearchQueries caps how many sub-queries decomposition may produce.
	MaxSearchQueries int
	// MaxKnowledgeResults caps the merged knowledge-stack result set.
	MaxKnowledgeResults int
	// MaxSourcesPerSearch caps web results requested per search term.
	MaxSourcesPerSearch int
	// MaxRetries bounds retry attempts for a single failed web search call.
	MaxRetries int
	// MaxSearchAttempts bounds retrieval rounds when confidence stays low.
	MaxSearchAttempts int
	// MinAnswerConfidence is the floor below which another round is issued.
	MinAnswerConfidence float64
	// EarlyTerminationConfidence stops retrieval once reached.
	EarlyTerminationConfidence float64
	// ScrapeTimeout bounds single-page scrape operations.
	ScrapeTimeout time.Duration
}

// DefaultConfig returns the standard retrieval budgets.
func DefaultConfig() Config {
	return Config{
		MaxSearchQueries:           4,
		MaxKnowledgeResults:        5,
		MaxSourcesPerSearch:        6,
		MaxRetries:                 2,
		MaxSearchAttempts:          3,
		MinAnswerConfidence:        0.3,
		EarlyTerminationConfidence: 0.8,
		ScrapeTimeout:              15 * time.Second,
	}
}

// normalized fills zero values with defaults so a partially populated Config
// stays usable.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxSearchQueries <= 0 {
		c.MaxSearchQueries = def.MaxSearchQueries
	}
	if c.MaxKnowledgeResults <= 0 {
		c.MaxKnowledgeResults = def.MaxKnowledgeResults
	}
	if c.MaxSourcesPerSearch <= 0 {
		c.MaxSourcesPerSearch = def.MaxSourcesPerSearch
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.MaxSearchAttempts <= 0 {
		c.MaxSearchAttempts = def.MaxSearchAttempts
	}
	if c.MinAnswerConfidence <= 0 {
		c.MinAnswerConfidence = def.MinAnswerConfidence
	}
	if c.EarlyTerminationConfidence <= 0 {
		c.EarlyTerminationConfidence = def.EarlyTerminationConfidence
	}
	if c.ScrapeTimeout <= 0 {
		c.ScrapeTimeout = def.ScrapeTimeout
	}
	return c
}
