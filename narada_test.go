package narada

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AishSoni/Narada-AI/ai/mock"
	"github.com/AishSoni/Narada-AI/config"
	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/research"
	"github.com/AishSoni/Narada-AI/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedWeb satisfies websearch.Client with fixed results.
type cannedWeb struct {
	results []websearch.Result
}

func (c *cannedWeb) Search(ctx context.Context, query string, opts websearch.Options) (*websearch.Response, error) {
	return &websearch.Response{Query: query, Results: c.results}, nil
}

func (c *cannedWeb) ScrapeURL(ctx context.Context, url string, timeout time.Duration) (*websearch.ScrapeResult, error) {
	return nil, errors.New("not scraped in tests")
}

func (c *cannedWeb) Provider() string { return "canned" }

func testChat(t *testing.T, searchQuery string) *mock.MockChatModel {
	t.Helper()
	chat := mock.NewMockChatModel()
	chat.GenerateFunc = func(ctx context.Context, system, prompt string) (string, error) {
		return "Setts are badger burrow systems.", nil
	}
	chat.GenerateJSONFunc = func(ctx context.Context, system, prompt string) (string, error) {
		switch {
		case strings.Contains(system, "Break the user's question"):
			return `{"queries": [{"question": "q", "searchQuery": "` + searchQuery + `"}]}`, nil
		case strings.Contains(system, "judge whether"):
			return `{"confidence": 0.9}`, nil
		case strings.Contains(system, "follow-up"):
			return `{"questions": []}`, nil
		}
		return "{}", nil
	}
	return chat
}

func newTestApp(t *testing.T, searchQuery string) *App {
	t.Helper()
	settings := &config.Settings{
		DataDir:        t.TempDir(),
		SearchProvider: websearch.ProviderDuckDuckGo,
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), testChat(t, searchQuery))
	web := &cannedWeb{results: []websearch.Result{
		{URL: "https://example.com/setts", Title: "Setts", Content: strings.Repeat("sett facts ", 20)},
	}}

	app, err := NewApp(settings,
		WithInMemoryStorage(),
		WithAIProvider(provider),
		WithWebClient(web))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, app.Close())
	})
	return app
}

func TestAppEndToEndSearch(t *testing.T) {
	const content = "Badgers dig extensive burrow systems called setts."
	app := newTestApp(t, content)
	ctx := context.Background()

	stack, err := app.Knowledge().CreateStack(ctx, "Wildlife", "field notes")
	require.NoError(t, err)

	_, err = app.Knowledge().AddDocument(ctx, stack.ID, &core.Document{
		Name:    "badgers.txt",
		Content: content,
		Type:    "txt",
	})
	require.NoError(t, err)
	app.Knowledge().Flush()

	var events []research.SearchEvent
	app.Engine().Search(ctx, "where do badgers live", nil, stack.ID, func(ev research.SearchEvent) {
		events = append(events, ev)
	})
	require.NotEmpty(t, events)

	final := events[len(events)-1]
	require.Equal(t, research.EventFinalResult, final.Type)
	assert.Contains(t, final.Content, `Based on your knowledge stack "Wildlife" and web sources:`)

	require.NotEmpty(t, final.Sources)
	assert.True(t, strings.HasPrefix(final.Sources[0].URL, core.KnowledgeURLScheme),
		"knowledge sources should lead: %q", final.Sources[0].URL)
}

func TestAppUnknownStackWithAlternatives(t *testing.T) {
	app := newTestApp(t, "anything")
	ctx := context.Background()

	_, err := app.Knowledge().CreateStack(ctx, "First", "")
	require.NoError(t, err)
	_, err = app.Knowledge().CreateStack(ctx, "Second", "")
	require.NoError(t, err)

	var events []research.SearchEvent
	app.Engine().Search(ctx, "question", nil, "no-such-stack", func(ev research.SearchEvent) {
		events = append(events, ev)
	})

	final := events[len(events)-1]
	require.Equal(t, research.EventError, final.Type)
	assert.Equal(t, research.ErrorKindStackNotFound, final.ErrorType)
}
