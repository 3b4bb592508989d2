package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AishSoni/Narada-AI/core"
)

const serpBaseURL = "https://serpapi.com/search.json"

const defaultSerpResults = 10

// SerpClient talks to SerpAPI's Google engine.
type SerpClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*SerpClient)(nil)

// NewSerpClient creates a SerpAPI client. The API key is required.
func NewSerpClient(apiKey string) (*SerpClient, error) {
	if apiKey == "" {
		return nil, &core.ConfigurationError{Provider: ProviderSerp, Missing: "API key"}
	}
	return &SerpClient{
		apiKey:     apiKey,
		baseURL:    serpBaseURL,
		httpClient: newHTTPClient(),
	}, nil
}

// Provider returns the provider name.
func (c *SerpClient) Provider() string { return ProviderSerp }

type serpResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	SearchParameters struct {
		Q string `json:"q"`
	} `json:"search_parameters"`
}

// Search queries the Google engine. SerpAPI returns snippets only, so
// Content carries the snippet text.
func (c *SerpClient) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSerpResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("engine", "google")
	params.Set("num", strconv.Itoa(limit))
	params.Set("gl", "us")
	params.Set("hl", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.ProviderError{Provider: ProviderSerp, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderSerp, resp.StatusCode)
	}

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &core.ProviderError{Provider: ProviderSerp, Err: err}
	}
	if parsed.Error != "" {
		return nil, &core.ProviderError{
			Provider: ProviderSerp,
			Err:      fmt.Errorf("%s", parsed.Error),
		}
	}

	out := &Response{Query: parsed.SearchParameters.Q}
	for _, r := range parsed.OrganicResults {
		out.Results = append(out.Results, Result{
			URL:         r.Link,
			Title:       titleOrDefault(r.Title),
			Description: r.Snippet,
			Content:     r.Snippet,
		})
	}
	return out, nil
}

// ScrapeURL approximates scraping through a site-restricted search, since
// SerpAPI has no dedicated scrape endpoint.
func (c *SerpClient) ScrapeURL(ctx context.Context, pageURL string, timeout time.Duration) (*ScrapeResult, error) {
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
			Provider: ProviderSerp,
			Err:      fmt.Errorf("no content found for %s", pageURL),
		}
	}

	first := resp.Results[0]
	return &ScrapeResult{Content: first.Content, Title: first.Title}, nil
}
