package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/AishSoni/Narada-AI/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(mock.NewMockEmbedder())

	chunks := []string{
		"the eiffel tower is in paris",
		"badgers are nocturnal mammals",
		"go is a statically typed language",
	}
	ids, err := store.AddDocument(ctx, "stack-1", "doc-1", chunks, ChunkMetadata{DocumentName: "facts.txt"})
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1_chunk_0", "doc-1_chunk_1", "doc-1_chunk_2"}, ids)

	// Querying with the exact chunk text must return that chunk on top with a
	// score above the threshold (the mock embedder is deterministic).
	hits, err := store.SearchSimilar(ctx, "stack-1", "badgers are nocturnal mammals", 5, 0.7)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "doc-1_chunk_1", hits[0].ID)
	assert.Equal(t, "doc-1", hits[0].DocumentID)
	assert.GreaterOrEqual(t, hits[0].Score, 0.7)

	// Results are sorted by score descending.
	for i := 0; i < len(hits)-1; i++ {
		assert.GreaterOrEqual(t, hits[i].Score, hits[i+1].Score)
	}
}

func TestMemoryStoreStackFiltering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(mock.NewMockEmbedder())

	_, err := store.AddDocument(ctx, "stack-a", "doc-a", []string{"alpha content"}, ChunkMetadata{})
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, "stack-b", "doc-b", []string{"alpha content"}, ChunkMetadata{})
	require.NoError(t, err)

	hits, err := store.SearchSimilar(ctx, "stack-a", "alpha content", 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-a", hits[0].DocumentID)
}

func TestMemoryStoreNoEmbedder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	assert.False(t, store.IsEmbeddingAvailable())

	_, err := store.AddDocument(ctx, "s", "d", []string{"text"}, ChunkMetadata{})
	assert.Error(t, err)

	// Search degrades to empty, never errors.
	hits, err := store.SearchSimilar(ctx, "s", "text", 5, 0.7)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryStoreModelNotFoundDisablesEmbedding(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("API returned unexpected status code: 404 model not found")
	}
	store := NewMemoryStore(embedder)

	_, err := store.AddDocument(ctx, "s", "d", []string{"text"}, ChunkMetadata{})
	require.Error(t, err)

	// The store must stop attempting embeddings for the rest of the process.
	assert.False(t, store.IsEmbeddingAvailable())

	hits, err := store.SearchSimilar(ctx, "s", "text", 5, 0.7)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryStoreRemovalIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(mock.NewMockEmbedder())

	_, err := store.AddDocument(ctx, "stack-1", "doc-1", []string{"a", "b"}, ChunkMetadata{})
	require.NoError(t, err)

	require.NoError(t, store.RemoveDocument(ctx, "doc-1"))
	require.NoError(t, store.RemoveDocument(ctx, "doc-1")) // no-op
	require.NoError(t, store.RemoveStack(ctx, "stack-1"))  // already empty
	require.NoError(t, store.RemoveStack(ctx, "missing"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVectors)
}

func TestMemoryStoreStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(mock.NewMockEmbedder())

	_, err := store.AddDocument(ctx, "stack-1", "doc-1", []string{"a", "b"}, ChunkMetadata{})
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, "stack-2", "doc-2", []string{"c"}, ChunkMetadata{})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalVectors)
	assert.Equal(t, []string{"stack-1", "stack-2"}, stats.Stacks)
	assert.Equal(t, []string{"doc-1", "doc-2"}, stats.Documents)

	assert.NoError(t, store.HealthCheck(ctx))
}
