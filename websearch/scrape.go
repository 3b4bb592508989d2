package websearch

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/AishSoni/Narada-AI/core"
)

// scrapeBodyLimit caps how much of a page is read.
const scrapeBodyLimit = 2 << 20

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
	titleRe  = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
)

// basicScrape fetches a page and reduces its HTML to plain text. It is a
// deliberately crude extraction: scripts and styles are removed, remaining
// tags stripped, whitespace collapsed.
func basicScrape(ctx context.Context, client *http.Client, provider, pageURL string, timeout time.Duration) (*ScrapeResult, error) {
	if timeout <= 0 {
		timeout = DefaultScrapeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &core.ProviderError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(provider, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, scrapeBodyLimit))
	if err != nil {
		return nil, &core.ProviderError{Provider: provider, Err: err}
	}

	html := string(body)
	var title string
	if m := titleRe.FindStringSubmatch(html); m != nil {
		title = strings.TrimSpace(m[1])
	}

	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")

	return &ScrapeResult{
		Content: strings.TrimSpace(text),
		Title:   title,
	}, nil
}
