package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AishSoni/Narada-AI/core"
)

const tavilyBaseURL = "https://api.tavily.com"

const defaultTavilyResults = 10

// TavilyClient talks to the Tavily search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*TavilyClient)(nil)

// NewTavilyClient creates a Tavily client. The API key is required.
func NewTavilyClient(apiKey string) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, &core.ConfigurationError{Provider: ProviderTavily, Missing: "API key"}
	}
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    tavilyBaseURL,
		httpClient: newHTTPClient(),
	}, nil
}

// Provider returns the provider name.
func (c *TavilyClient) Provider() string { return ProviderTavily }

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Query   string `json:"query"`
	Results []struct {
		Title      string  `json:"title"`
		URL        string  `json:"url"`
		Content    string  `json:"content"`
		Score      float64 `json:"score"`
		RawContent string  `json:"raw_content"`
	} `json:"results"`
}

// Search POSTs to /search with advanced depth and raw content enabled.
func (c *TavilyClient) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultTavilyResults
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:            c.apiKey,
		Query:             query,
		SearchDepth:       "advanced",
		MaxResults:        limit,
		IncludeAnswer:     true,
		IncludeRawContent: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.ProviderError{Provider: ProviderTavily, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderTavily, resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &core.ProviderError{Provider: ProviderTavily, Err: err}
	}

	out := &Response{Query: parsed.Query, Answer: parsed.Answer}
	for _, r := range parsed.Results {
		content := r.RawContent
		if content == "" {
			content = r.Content
		}
		out.Results = append(out.Results, Result{
			URL:         r.URL,
			Title:       titleOrDefault(r.Title),
			Description: truncateDescription(r.Content),
			Content:     content,
			Score:       r.Score,
		})
	}
	return out, nil
}

// ScrapeURL approximates scraping through a site-restricted search, since
// Tavily has no dedicated scrape endpoint.
func (c *TavilyClient) ScrapeURL(ctx context.Context, pageURL string, timeout time.Duration) (*ScrapeResult, error) {
	if timeout <= 0 {
		timeout = DefaultScrapeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.Search(ctx, fmt.Sprintf("site:%s", parsed.Hostname()), Options{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, &core.ProviderError{
			Provider: ProviderTavily,
			Err:      fmt.Errorf("no content found for %s", pageURL),
		}
	}

	first := resp.Results[0]
	return &ScrapeResult{Content: first.Content, Title: first.Title}, nil
}

func titleOrDefault(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}

func truncateDescription(content string) string {
	const max = 200
	if len(content) <= max {
		return content
	}
	return content[:max] + "..."
}
