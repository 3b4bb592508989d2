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

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AishSoni/Narada-AI/core"
)

// Provider names form a closed set; the factory rejects anything else.
const (
	ProviderTavily     = "tavily"
	ProviderSerp       = "serp"
	ProviderDuckDuckGo = "duckduckgo"
)

// userAgent identifies outgoing requests.
const userAgent = "Narada-AI/1.0"

// DefaultScrapeTimeout bounds single-page scrapes.
const DefaultScrapeTimeout = 15 * time.Second

// Result is a provider-neutral search hit.
type Result struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	Score       float64 `json:"score,omitempty"`
}

// Response is a provider-neutral search response.
type Response struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// Options tunes a single search call.
type Options struct {
	// Limit caps the number of results. Zero means the provider default.
	Limit int
}

// ScrapeResult is the content of a single fetched page.
type ScrapeResult struct {
	Content string
	Title   string
}

// Client is a web search provider.
type Client interface {
	// Search runs a query and returns normalized results.
	Search(ctx context.Context, query string, opts Options) (*Response, error)
	// ScrapeURL fetches the readable content of a single page.
	ScrapeURL(ctx context.Context, url string, timeout time.Duration) (*ScrapeResult, error)
	// Provider returns the provider name.
	Provider() string
}

// New builds a client for the named provider.
func New(provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderTavily:
		return NewTavilyClient(apiKey)
	case ProviderSerp:
		return NewSerpClient(apiKey)
	case ProviderDuckDuckGo:
		return NewDuckDuckGoClient(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", provider)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func statusError(provider string, status int) error {
	return &core.ProviderError{
		Provider:   provider,
		StatusCode: status,
		Err:        fmt.Errorf("unexpected status %d", status),
	}
}
