package vector

import (
	"context"
	"fmt"
)

// ChunkMetadata carries provenance for one stored chunk, copied from the
// owning document at embedding time.
type ChunkMetadata struct {
	ChunkIndex   int    `json:"chunkIndex"`
	TotalChunks  int    `json:"totalChunks"`
	DocumentName string `json:"documentName,omitempty"`
	FileType     string `json:"fileType,omitempty"`
}

// Chunk is one stored row: a bounded slice of document text with its
// embedding. Chunks are exclusively owned by the vector store; the knowledge
// store never holds embeddings directly.
type Chunk struct {
	ID         string
	StackID    string
	DocumentID string
	Content    string
	Embedding  []float32
	Metadata   ChunkMetadata
}

// SearchHit is one similarity match returned by SearchSimilar.
type SearchHit struct {
	ID         string
	DocumentID string
	Score      float64
	Content    string
	Metadata   ChunkMetadata
}

// Stats describes the store contents for diagnostics.
type Stats struct {
	TotalVectors int
	Stacks       []string
	Documents    []string
}

// Store is the capability interface satisfied by every vector backend.
// The retrieval layer depends only on this interface, never on a concrete
// implementation.
type Store interface {
	// AddDocument embeds all chunks in one batch and stores one row per
	// chunk, keyed deterministically by document id and chunk index.
	// Returns the generated chunk ids. Fails with core.ErrEmbeddingUnavailable
	// when no working embedding provider is configured.
	AddDocument(ctx context.Context, stackID, documentID string, chunks []string, meta ChunkMetadata) ([]string, error)

	// SearchSimilar embeds the query and returns chunks from the given stack
	// with similarity >= threshold, sorted descending, truncated to limit.
	// Similarity search is advisory, not critical-path: it returns an empty
	// slice (never an error) when the embedding provider is unavailable or
	// the call fails.
	SearchSimilar(ctx context.Context, stackID, query string, limit int, threshold float64) ([]SearchHit, error)

	// RemoveDocument purges all rows for the document. Idempotent.
	RemoveDocument(ctx context.Context, documentID string) error

	// RemoveStack purges all rows for the stack. Idempotent.
	RemoveStack(ctx context.Context, stackID string) error

	// IsEmbeddingAvailable reports whether embedding-backed operations can
	// currently succeed.
	IsEmbeddingAvailable() bool

	// Stats returns store contents for diagnostics.
	Stats(ctx context.Context) (Stats, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error
}

// ChunkID derives the deterministic row id for a chunk of a document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
