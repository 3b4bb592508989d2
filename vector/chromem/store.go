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

// Package chromem implements the vector.Store interface on a persistent
// chromem-go collection. The collection is created lazily and its embedding
// dimension is auto-detected with a probe embedding when not configured.
package chromem

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/AishSoni/Narada-AI/ai"
	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/vector"
	chromemgo "github.com/philippgille/chromem-go"
)

// DefaultCollectionName is used when none is configured.
const DefaultCollectionName = "narada_vectors"

// Metadata keys for stored chunk payloads.
const (
	metaStackID      = "stackId"
	metaDocumentID   = "documentId"
	metaChunkIndex   = "chunkIndex"
	metaTotalChunks  = "totalChunks"
	metaDocumentName = "documentName"
	metaFileType     = "fileType"
)

// Store is the persistent vector backend.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	embedder   ai.Embedder

	mu          sync.Mutex
	initialized bool
	dim         int // configured or probe-detected embedding dimension
	disabled    bool

	configuredDim int
	logger        *slog.Logger
}

var _ vector.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCollectionDimensions sets an explicit embedding dimension, skipping the
// probe. A mismatch against the live embedder is logged, not fatal.
func WithCollectionDimensions(dim int) Option {
	return func(s *Store) {
		s.configuredDim = dim
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewStore opens (or creates) a persistent chromem database at path and binds
// the named collection. An empty collection name falls back to
// DefaultCollectionName.
func NewStore(path, collectionName string, embedder ai.Embedder, opts ...Option) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(path, false)
	if err != nil {
		return nil, err
	}
	return newStore(db, collectionName, embedder, opts...)
}

// NewEphemeralStore creates a non-persistent chromem store, useful in tests.
func NewEphemeralStore(collectionName string, embedder ai.Embedder, opts ...Option) (*Store, error) {
	return newStore(chromemgo.NewDB(), collectionName, embedder, opts...)
}

func newStore(db *chromemgo.DB, collectionName string, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	s := &Store{
		db:       db,
		embedder: embedder,
		logger:   slog.Default().With("component", "chromem-vector-store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	// The embedding func is never invoked: all embeddings are supplied
	// explicitly, both on add and on query.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, err
	}
	s.collection = collection

	return s, nil
}

// ensureInit resolves the collection's embedding dimension once: explicit
// configuration wins, otherwise a probe embedding detects it. A mismatch
// between configured dimension and the live embedder is logged rather than
// failing startup.
func (s *Store) ensureInit(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true

	if s.configuredDim > 0 {
		s.dim = s.configuredDim
		s.logger.Info("using configured embedding dimension", "dim", s.dim)
	}

	if s.embedder == nil {
		return
	}

	if known, ok := s.embedder.Dimensions(); ok && s.dim == 0 {
		s.dim = known
		s.logger.Info("using model-known embedding dimension", "dim", s.dim)
		return
	}

	probe, err := s.embedder.EmbedText(ctx, "dimension probe")
	if err != nil {
		s.logger.Warn("failed to auto-detect embedding dimension", "err", err)
		return
	}
	if s.dim == 0 {
		s.dim = len(probe)
		s.logger.Info("auto-detected embedding dimension", "dim", s.dim)
	} else if len(probe) != s.dim {
		s.logger.Warn("collection dimension does not match live embedder; searches against old rows may fail",
			"configured", s.dim, "detected", len(probe))
	}
}

// AddDocument embeds all chunks in one batch and upserts one row per chunk.
func (s *Store) AddDocument(ctx context.Context, stackID, documentID string, chunks []string, meta vector.ChunkMetadata) ([]string, error) {
	if !s.IsEmbeddingAvailable() {
		return nil, core.ErrEmbeddingUnavailable
	}
	s.ensureInit(ctx)

	embeddings, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		s.handleEmbeddingError(err)
		return nil, err
	}

	docs := make([]chromemgo.Document, 0, len(chunks))
	ids := make([]string, 0, len(chunks))
	for i, content := range chunks {
		id := vector.ChunkID(documentID, i)
		docs = append(docs, chromemgo.Document{
			ID:        id,
			Content:   content,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				metaStackID:      stackID,
				metaDocumentID:   documentID,
				metaChunkIndex:   strconv.Itoa(i),
				metaTotalChunks:  strconv.Itoa(len(chunks)),
				metaDocumentName: meta.DocumentName,
				metaFileType:     meta.FileType,
			},
		})
		ids = append(ids, id)
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, err
	}

	s.logger.Debug("stored chunk embeddings", "document", documentID, "chunks", len(chunks))
	return ids, nil
}

// SearchSimilar embeds the query and runs a filtered similarity search.
// Failures degrade to empty results so keyword search can take over.
func (s *Store) SearchSimilar(ctx context.Context, stackID, query string, limit int, threshold float64) ([]vector.SearchHit, error) {
	if !s.IsEmbeddingAvailable() {
		s.logger.Warn("embedding provider unavailable, skipping vector search", "stack", stackID)
		return nil, nil
	}
	s.ensureInit(ctx)

	queryEmbedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.handleEmbeddingError(err)
		s.logger.Error("query embedding failed", "stack", stackID, "query", query, "err", err)
		return nil, nil
	}

	// chromem rejects nResults larger than the collection size.
	n := limit
	if count := s.collection.Count(); count < n {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryWithOptions(ctx, chromemgo.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       n,
		Where:          map[string]string{metaStackID: stackID},
	})
	if err != nil {
		s.logger.Error("vector search failed", "stack", stackID, "query", query, "err", err)
		return nil, nil
	}

	hits := make([]vector.SearchHit, 0, len(results))
	for _, res := range results {
		score := float64(res.Similarity)
		if score < threshold {
			continue
		}
		chunkIndex, _ := strconv.Atoi(res.Metadata[metaChunkIndex])
		totalChunks, _ := strconv.Atoi(res.Metadata[metaTotalChunks])
		hits = append(hits, vector.SearchHit{
			ID:         res.ID,
			DocumentID: res.Metadata[metaDocumentID],
			Score:      score,
			Content:    res.Content,
			Metadata: vector.ChunkMetadata{
				ChunkIndex:   chunkIndex,
				TotalChunks:  totalChunks,
				DocumentName: res.Metadata[metaDocumentName],
				FileType:     res.Metadata[metaFileType],
			},
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits, nil
}

// RemoveDocument purges all rows for the document. Idempotent.
func (s *Store) RemoveDocument(ctx context.Context, documentID string) error {
	return s.collection.Delete(ctx, map[string]string{metaDocumentID: documentID}, nil)
}

// RemoveStack purges all rows for the stack. Idempotent.
func (s *Store) RemoveStack(ctx context.Context, stackID string) error {
	return s.collection.Delete(ctx, map[string]string{metaStackID: stackID}, nil)
}

// IsEmbeddingAvailable reports whether embedding-backed operations can succeed.
func (s *Store) IsEmbeddingAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.embedder != nil && !s.disabled
}

// Stats returns store contents for diagnostics.
func (s *Store) Stats(ctx context.Context) (vector.Stats, error) {
	return vector.Stats{TotalVectors: s.collection.Count()}, nil
}

// HealthCheck verifies the collection is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.collection.Count()
	return nil
}

// handleEmbeddingError disables the embedder for the remainder of the process
// lifetime on a "model not found" class of provider error.
func (s *Store) handleEmbeddingError(err error) {
	if !vector.IsModelNotFound(err) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.disabled {
		s.disabled = true
		s.logger.Warn("embedding model not found, disabling vector search for this session", "err", err)
	}
}
