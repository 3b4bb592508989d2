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

// Package server exposes the research engine over HTTP. Search responses
// stream as newline-delimited JSON, one event per line, flushed as they
// happen so clients can render progress live.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/AishSoni/Narada-AI/research"
)

// Searcher is the slice of the research engine the server needs.
type Searcher interface {
	Search(ctx context.Context, query string, history []research.Exchange, stackID string, onEvent research.EventCallback)
}

// searchRequest is the POST body for /api/search.
type searchRequest struct {
	Query            string              `json:"query"`
	Context          []research.Exchange `json:"context"`
	KnowledgeStackID string              `json:"knowledgeStackId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the streaming search endpoint.
type Server struct {
	engine Searcher
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// New creates a Server around a search engine.
func New(engine Searcher, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", s.handleSearch)
	return mux
}

// ListenAndServe blocks serving the routes on addr until the context is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handleSearch streams search events for a query. The stream itself is the
// error channel once headers are written: engine failures arrive as a
// terminal error event on the same stream, never as an HTTP status.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeJSONError(w, http.StatusBadRequest, "Query is required")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	encoder := json.NewEncoder(w)

	s.engine.Search(r.Context(), req.Query, req.Context, req.KnowledgeStackID, func(event research.SearchEvent) {
		// Encode appends the newline that delimits events on the wire.
		if err := encoder.Encode(event); err != nil {
			s.logger.Debug("client went away mid-stream", "err", err)
			return
		}
		if canFlush {
			flusher.Flush()
		}
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		slog.Debug("failed to write error response", "err", err)
	}
}
