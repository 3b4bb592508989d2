package chromem

import (
	"context"
	"errors"
	"testing"

	"github.com/AishSoni/Narada-AI/ai/mock"
	"github.com/AishSoni/Narada-AI/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, embedder *mock.MockEmbedder) *Store {
	t.Helper()
	store, err := NewEphemeralStore("test_vectors", embedder)
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, mock.NewMockEmbedder())

	chunks := []string{
		"the eiffel tower is in paris",
		"badgers are nocturnal mammals",
	}
	ids, err := store.AddDocument(ctx, "stack-1", "doc-1", chunks, vector.ChunkMetadata{
		DocumentName: "facts.txt",
		FileType:     "txt",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1_chunk_0", "doc-1_chunk_1"}, ids)

	hits, err := store.SearchSimilar(ctx, "stack-1", "badgers are nocturnal mammals", 5, 0.7)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "doc-1_chunk_1", hits[0].ID)
	assert.Equal(t, "doc-1", hits[0].DocumentID)
	assert.GreaterOrEqual(t, hits[0].Score, 0.7)
	assert.Equal(t, "facts.txt", hits[0].Metadata.DocumentName)
	assert.Equal(t, 1, hits[0].Metadata.ChunkIndex)
	assert.Equal(t, 2, hits[0].Metadata.TotalChunks)
}

func TestStoreStackFiltering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, mock.NewMockEmbedder())

	_, err := store.AddDocument(ctx, "stack-a", "doc-a", []string{"alpha content"}, vector.ChunkMetadata{})
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, "stack-b", "doc-b", []string{"alpha content"}, vector.ChunkMetadata{})
	require.NoError(t, err)

	hits, err := store.SearchSimilar(ctx, "stack-a", "alpha content", 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-a", hits[0].DocumentID)
}

func TestStoreEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, mock.NewMockEmbedder())

	hits, err := store.SearchSimilar(ctx, "stack-1", "anything", 5, 0.7)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStoreRemoval(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, mock.NewMockEmbedder())

	_, err := store.AddDocument(ctx, "stack-1", "doc-1", []string{"a", "b"}, vector.ChunkMetadata{})
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, "stack-1", "doc-2", []string{"c"}, vector.ChunkMetadata{})
	require.NoError(t, err)

	require.NoError(t, store.RemoveDocument(ctx, "doc-1"))
	require.NoError(t, store.RemoveDocument(ctx, "doc-1")) // no-op

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalVectors)

	require.NoError(t, store.RemoveStack(ctx, "stack-1"))
	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVectors)
}

func TestStoreModelNotFoundDisablesEmbedding(t *testing.T) {
	ctx := context.Background()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("API returned unexpected status code: 404 model not found")
	}
	store := newTestStore(t, embedder)

	_, err := store.AddDocument(ctx, "s", "d", []string{"text"}, vector.ChunkMetadata{})
	require.Error(t, err)
	assert.False(t, store.IsEmbeddingAvailable())

	hits, err := store.SearchSimilar(ctx, "s", "text", 5, 0.7)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}
