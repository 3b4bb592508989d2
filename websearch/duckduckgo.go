package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AishSoni/Narada-AI/core"
)

const duckduckgoBaseURL = "https://api.duckduckgo.com"

const defaultDuckDuckGoResults = 10

// DuckDuckGoClient uses the free instant answer API. No key is required;
// when one is set it is forwarded as a bearer token. Coverage is shallower
// than the paid providers, so full page content comes from ScrapeURL.
type DuckDuckGoClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*DuckDuckGoClient)(nil)

// NewDuckDuckGoClient creates a DuckDuckGo client. apiKey may be empty.
func NewDuckDuckGoClient(apiKey string) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		apiKey:     apiKey,
		baseURL:    duckduckgoBaseURL,
		httpClient: newHTTPClient(),
	}
}

// Provider returns the provider name.
func (c *DuckDuckGoClient) Provider() string { return ProviderDuckDuckGo }

type duckduckgoResponse struct {
	Heading     string `json:"Heading"`
	Abstract    string `json:"Abstract"`
	AbstractURL string `json:"AbstractURL"`
	AnswerType  string `json:"AnswerType"`

	RelatedTopics []struct {
		FirstURL string `json:"FirstURL"`
		Text     string `json:"Text"`
	} `json:"RelatedTopics"`
}

// Search queries the instant answer API. The abstract, when present, leads
// the result list ahead of related topics.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultDuckDuckGoResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.ProviderError{Provider: ProviderDuckDuckGo, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(ProviderDuckDuckGo, resp.StatusCode)
	}

	var parsed duckduckgoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &core.ProviderError{Provider: ProviderDuckDuckGo, Err: err}
	}

	out := &Response{Query: query, Answer: parsed.Abstract}
	if parsed.Abstract != "" && parsed.AbstractURL != "" {
		out.Results = append(out.Results, Result{
			URL:         parsed.AbstractURL,
			Title:       titleOrDefault(parsed.Heading),
			Description: truncateDescription(parsed.Abstract),
			Content:     parsed.Abstract,
		})
	}
	for _, topic := range parsed.RelatedTopics {
		if len(out.Results) >= limit {
			break
		}
		if topic.FirstURL == "" || topic.Text == "" {
			continue
		}
		title := topic.Text
		if i := strings.Index(title, " - "); i > 0 {
			title = title[:i]
		}
		out.Results = append(out.Results, Result{
			URL:         topic.FirstURL,
			Title:       title,
			Description: truncateDescription(topic.Text),
			Content:     topic.Text,
		})
	}
	return out, nil
}

// ScrapeURL fetches the page directly and strips it down to readable text.
func (c *DuckDuckGoClient) ScrapeURL(ctx context.Context, pageURL string, timeout time.Duration) (*ScrapeResult, error) {
	return basicScrape(ctx, c.httpClient, ProviderDuckDuckGo, pageURL, timeout)
}
