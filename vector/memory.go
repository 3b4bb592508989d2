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

package vector

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/AishSoni/Narada-AI/ai"
	"github.com/AishSoni/Narada-AI/core"
)

// MemoryStore is the in-memory fallback vector backend: a linear scan with
// cosine similarity. It is used automatically when no persistent backend is
// configured or when one fails to initialize.
type MemoryStore struct {
	mu       sync.RWMutex
	chunks   []Chunk
	dim      int // detected from the first stored embedding
	embedder ai.Embedder
	disabled bool // set permanently after a "model not found" provider error
	logger   *slog.Logger
}

var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryLogger sets a custom logger.
// Default is slog.Default().
func WithMemoryLogger(logger *slog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewMemoryStore creates an in-memory vector store. A nil embedder is
// allowed; the store then reports embeddings unavailable and similarity
// search degrades to empty results.
func NewMemoryStore(embedder ai.Embedder, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		embedder: embedder,
		logger:   slog.Default().With("component", "memory-vector-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddDocument embeds all chunks in one batch and stores one row per chunk.
func (s *MemoryStore) AddDocument(ctx context.Context, stackID, documentID string, chunks []string, meta ChunkMetadata) ([]string, error) {
	if !s.IsEmbeddingAvailable() {
		return nil, core.ErrEmbeddingUnavailable
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		s.handleEmbeddingError(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(chunks))
	for i, content := range chunks {
		if s.dim == 0 {
			s.dim = len(embeddings[i])
		} else if len(embeddings[i]) != s.dim {
			return nil, &core.ProviderError{
				Provider: "memory-vector-store",
				Err:      errDimensionMismatch(s.dim, len(embeddings[i])),
			}
		}

		chunkMeta := meta
		chunkMeta.ChunkIndex = i
		chunkMeta.TotalChunks = len(chunks)

		id := ChunkID(documentID, i)
		s.chunks = append(s.chunks, Chunk{
			ID:         id,
			StackID:    stackID,
			DocumentID: documentID,
			Content:    content,
			Embedding:  embeddings[i],
			Metadata:   chunkMeta,
		})
		ids = append(ids, id)
	}

	s.logger.Debug("stored chunk embeddings", "document", documentID, "chunks", len(chunks))
	return ids, nil
}

// SearchSimilar scores every chunk in the stack by cosine similarity.
// Failures degrade to empty results so keyword search can take over.
func (s *MemoryStore) SearchSimilar(ctx context.Context, stackID, query string, limit int, threshold float64) ([]SearchHit, error) {
	if !s.IsEmbeddingAvailable() {
		s.logger.Warn("embedding provider unavailable, skipping vector search", "stack", stackID)
		return nil, nil
	}

	queryEmbedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.handleEmbeddingError(err)
		s.logger.Error("query embedding failed", "stack", stackID, "query", query, "err", err)
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]SearchHit, 0)
	for _, chunk := range s.chunks {
		if chunk.StackID != stackID {
			continue
		}
		score := CosineSimilarity(queryEmbedding, chunk.Embedding)
		if score < threshold {
			continue
		}
		hits = append(hits, SearchHit{
			ID:         chunk.ID,
			DocumentID: chunk.DocumentID,
			Score:      score,
			Content:    chunk.Content,
			Metadata:   chunk.Metadata,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// RemoveDocument purges all rows for the document. Removing a nonexistent id
// is a no-op.
func (s *MemoryStore) RemoveDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.DocumentID != documentID {
			kept = append(kept, chunk)
		}
	}
	removed := len(s.chunks) - len(kept)
	s.chunks = kept
	if removed > 0 {
		s.logger.Debug("removed document vectors", "document", documentID, "count", removed)
	}
	return nil
}

// RemoveStack purges all rows for the stack. Removing a nonexistent id is a
// no-op.
func (s *MemoryStore) RemoveStack(ctx context.Context, stackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.StackID != stackID {
			kept = append(kept, chunk)
		}
	}
	removed := len(s.chunks) - len(kept)
	s.chunks = kept
	if removed > 0 {
		s.logger.Debug("removed stack vectors", "stack", stackID, "count", removed)
	}
	return nil
}

// IsEmbeddingAvailable reports whether embedding-backed operations can succeed.
func (s *MemoryStore) IsEmbeddingAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedder != nil && !s.disabled
}

// Stats returns store contents for diagnostics.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stackSet := make(map[string]bool)
	docSet := make(map[string]bool)
	for _, chunk := range s.chunks {
		stackSet[chunk.StackID] = true
		docSet[chunk.DocumentID] = true
	}

	stats := Stats{TotalVectors: len(s.chunks)}
	for id := range stackSet {
		stats.Stacks = append(stats.Stacks, id)
	}
	for id := range docSet {
		stats.Documents = append(stats.Documents, id)
	}
	sort.Strings(stats.Stacks)
	sort.Strings(stats.Documents)
	return stats, nil
}

// HealthCheck always succeeds for the in-memory backend.
func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

// handleEmbeddingError disables the embedder for the remainder of the process
// lifetime on a "model not found" class of provider error, so the store
// degrades to keyword-only search instead of failing repeatedly.
func (s *MemoryStore) handleEmbeddingError(err error) {
	if !IsModelNotFound(err) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disabled {
		s.disabled = true
		s.logger.Warn("embedding model not found, disabling vector search for this session", "err", err)
	}
}

// IsModelNotFound recognizes the provider error class that signals a
// permanently missing embedding model. Shared by all vector backends.
func IsModelNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "model not found") ||
		strings.Contains(msg, "model_not_found")
}
