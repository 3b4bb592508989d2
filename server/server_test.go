package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AishSoni/Narada-AI/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSearcher replays canned events and records what it was called with.
type scriptedSearcher struct {
	events  []research.SearchEvent
	query   string
	stackID string
	history []research.Exchange
}

func (s *scriptedSearcher) Search(ctx context.Context, query string, history []research.Exchange, stackID string, onEvent research.EventCallback) {
	s.query = query
	s.history = history
	s.stackID = stackID
	for _, ev := range s.events {
		onEvent(ev)
	}
}

func postSearch(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeLines(t *testing.T, body *bytes.Buffer) []research.SearchEvent {
	t.Helper()
	var events []research.SearchEvent
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var ev research.SearchEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev), "line %q", line)
		events = append(events, ev)
	}
	return events
}

func TestSearchStreamsEvents(t *testing.T) {
	searcher := &scriptedSearcher{events: []research.SearchEvent{
		{Type: research.EventPhaseUpdate, Phase: research.PhaseUnderstanding, Message: "Understanding your question..."},
		{Type: research.EventThinking, Message: "Searching for: badgers"},
		{Type: research.EventFinalResult, Content: "Badgers dig burrows."},
	}}
	srv := New(searcher)

	rec := postSearch(t, srv.Handler(), `{"query": "badgers", "knowledgeStackId": "s1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "badgers", searcher.query)
	assert.Equal(t, "s1", searcher.stackID)

	events := decodeLines(t, rec.Body)
	require.Len(t, events, 3)
	assert.Equal(t, research.EventPhaseUpdate, events[0].Type)
	assert.Equal(t, research.EventFinalResult, events[2].Type)
	assert.Equal(t, "Badgers dig burrows.", events[2].Content)
}

func TestSearchForwardsHistory(t *testing.T) {
	searcher := &scriptedSearcher{events: []research.SearchEvent{
		{Type: research.EventFinalResult, Content: "ok"},
	}}
	srv := New(searcher)

	body := `{"query": "follow up", "context": [{"query": "first", "response": "answer"}]}`
	rec := postSearch(t, srv.Handler(), body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, searcher.history, 1)
	assert.Equal(t, "first", searcher.history[0].Query)
	assert.Equal(t, "answer", searcher.history[0].Response)
	assert.Empty(t, searcher.stackID)
}

func TestSearchErrorEventStreamsWithOKStatus(t *testing.T) {
	// Engine failures after headers are sent arrive as a terminal error
	// event on the stream, not as an HTTP status.
	searcher := &scriptedSearcher{events: []research.SearchEvent{
		{Type: research.EventPhaseUpdate, Phase: research.PhaseUnderstanding, Message: "Understanding your question..."},
		{Type: research.EventError, Error: "Knowledge stack not found", ErrorType: research.ErrorKindStackNotFound},
	}}
	srv := New(searcher)

	rec := postSearch(t, srv.Handler(), `{"query": "q", "knowledgeStackId": "nope"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeLines(t, rec.Body)
	require.Len(t, events, 2)
	last := events[len(events)-1]
	assert.Equal(t, research.EventError, last.Type)
	assert.Equal(t, research.ErrorKindStackNotFound, last.ErrorType)
}

func TestSearchRejectsBadRequests(t *testing.T) {
	srv := New(&scriptedSearcher{})
	handler := srv.Handler()

	t.Run("missing query", func(t *testing.T) {
		rec := postSearch(t, handler, `{"context": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Query is required")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := postSearch(t, handler, `{"query": `)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
