package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/AishSoni/Narada-AI/ai/mock"
	"github.com/AishSoni/Narada-AI/core"
	"github.com/AishSoni/Narada-AI/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, vectors vector.Store) *Store {
	t.Helper()

	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	if vectors == nil {
		vectors = vector.NewMemoryStore(mock.NewMockEmbedder())
	}
	store, err := NewStore(backend, vectors, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(store.Release)
	return store
}

func completedDoc(name, content string) *core.Document {
	return &core.Document{
		Name:    name,
		Type:    "txt",
		Status:  core.DocumentStatusCompleted,
		Content: content,
	}
}

func TestCreateStack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	stack, err := store.CreateStack(ctx, "Research Papers", "ML papers")
	require.NoError(t, err)
	assert.NotEmpty(t, stack.ID)
	assert.Equal(t, "Research Papers", stack.Name)
	assert.Zero(t, stack.DocumentsCount)

	t.Run("duplicate name is rejected case-insensitively", func(t *testing.T) {
		_, err := store.CreateStack(ctx, "research papers", "other")
		assert.ErrorIs(t, err, core.ErrStackNameTaken)
	})

	t.Run("lookup by name", func(t *testing.T) {
		found, err := store.GetStackByName(ctx, "RESEARCH PAPERS")
		require.NoError(t, err)
		assert.Equal(t, stack.ID, found.ID)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := store.CreateStack(ctx, "  ", "desc")
		assert.Error(t, err)
	})

	t.Run("missing stack", func(t *testing.T) {
		_, err := store.GetStack(ctx, "no-such-id")
		assert.ErrorIs(t, err, core.ErrKnowledgeStackNotFound)
	})
}

func TestUpdateStack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	stack, err := store.CreateStack(ctx, "Alpha", "")
	require.NoError(t, err)
	_, err = store.CreateStack(ctx, "Beta", "")
	require.NoError(t, err)

	t.Run("rename frees the old name", func(t *testing.T) {
		_, err := store.UpdateStack(ctx, stack.ID, "Gamma", "renamed")
		require.NoError(t, err)

		_, err = store.GetStackByName(ctx, "alpha")
		assert.ErrorIs(t, err, core.ErrKnowledgeStackNotFound)

		found, err := store.GetStackByName(ctx, "gamma")
		require.NoError(t, err)
		assert.Equal(t, "renamed", found.Description)
	})

	t.Run("rename onto an existing name is rejected", func(t *testing.T) {
		_, err := store.UpdateStack(ctx, stack.ID, "beta", "")
		assert.ErrorIs(t, err, core.ErrStackNameTaken)
	})
}

func TestAddDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	stack, err := store.CreateStack(ctx, "Docs", "")
	require.NoError(t, err)

	doc, err := store.AddDocument(ctx, stack.ID, completedDoc("facts.txt", "badgers dig burrows"))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.NotEmpty(t, doc.Checksum)
	store.Flush()

	t.Run("stack counters are recomputed", func(t *testing.T) {
		updated, err := store.GetStack(ctx, stack.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.DocumentsCount)
		assert.NotEqual(t, "0 B", updated.Size)
	})

	t.Run("embedding succeeds in the background", func(t *testing.T) {
		stored, err := store.GetDocument(ctx, stack.ID, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, core.EmbeddingStatusSucceeded, stored.EmbeddingStatus)
	})

	t.Run("identical content is rejected", func(t *testing.T) {
		_, err := store.AddDocument(ctx, stack.ID, completedDoc("copy.txt", "badgers dig burrows"))
		assert.ErrorIs(t, err, core.ErrDuplicateDocument)
	})

	t.Run("unknown stack", func(t *testing.T) {
		_, err := store.AddDocument(ctx, "no-such-stack", completedDoc("x.txt", "content"))
		assert.ErrorIs(t, err, core.ErrKnowledgeStackNotFound)
	})
}

func TestAddDocumentWithoutEmbedder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, vector.NewMemoryStore(nil))

	stack, err := store.CreateStack(ctx, "Docs", "")
	require.NoError(t, err)

	doc, err := store.AddDocument(ctx, stack.ID, completedDoc("facts.txt", "badgers dig burrows"))
	require.NoError(t, err)
	assert.Equal(t, core.EmbeddingStatusSkipped, doc.EmbeddingStatus)
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	vectors := vector.NewMemoryStore(mock.NewMockEmbedder())
	store := newTestStore(t, vectors)

	stack, err := store.CreateStack(ctx, "Docs", "")
	require.NoError(t, err)
	doc, err := store.AddDocument(ctx, stack.ID, completedDoc("facts.txt", "badgers dig burrows"))
	require.NoError(t, err)
	store.Flush()

	require.NoError(t, store.DeleteDocument(ctx, stack.ID, doc.ID))

	_, err = store.GetDocument(ctx, stack.ID, doc.ID)
	assert.ErrorIs(t, err, core.ErrDocumentNotFound)

	stats, err := vectors.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVectors)

	t.Run("re-adding the same content works after deletion", func(t *testing.T) {
		_, err := store.AddDocument(ctx, stack.ID, completedDoc("facts.txt", "badgers dig burrows"))
		assert.NoError(t, err)
	})
}

func TestDeleteStackCascades(t *testing.T) {
	ctx := context.Background()
	vectors := vector.NewMemoryStore(mock.NewMockEmbedder())
	store := newTestStore(t, vectors)

	stack, err := store.CreateStack(ctx, "Docs", "")
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, stack.ID, completedDoc("a.txt", "first document body"))
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, stack.ID, completedDoc("b.txt", "second document body"))
	require.NoError(t, err)
	store.Flush()

	require.NoError(t, store.DeleteStack(ctx, stack.ID))

	_, err = store.GetStack(ctx, stack.ID)
	assert.ErrorIs(t, err, core.ErrKnowledgeStackNotFound)
	_, err = store.GetStackByName(ctx, "docs")
	assert.ErrorIs(t, err, core.ErrKnowledgeStackNotFound)

	stats, err := vectors.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVectors)
}

func TestSearchDocumentsEmptyStack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	stack, err := store.CreateStack(ctx, "Empty", "")
	require.NoError(t, err)

	results, err := store.SearchDocuments(ctx, stack.ID, "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDocumentsVectorPath(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	stack, err := store.CreateStack(ctx, "Docs", "")
	require.NoError(t, err)

	content := "Badgers dig extensive burrows near woodland edges"
	_, err = store.AddDocument(ctx, stack.ID, completedDoc("badgers.txt", content))
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, stack.ID, completedDoc("other.txt", "A completely unrelated text about sourdough baking"))
	require.NoError(t, err)
	store.Flush()

	// The deterministic mock embedder maps identical text to identical
	// vectors, so querying with the exact content takes the vector path.
	results, err := store.SearchDocuments(ctx, stack.ID, content, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "badgers.txt", results[0].Name)
	assert.GreaterOrEqual(t, results[0].Score, 0.7)
	assert.NotEmpty(t, results[0].Snippet)
}

func TestSearchDocumentsKeywordFallback(t *testing.T) {
	ctx := context.Background()

	// Embedder that permanently breaks on first use: vector search becomes
	// structurally unavailable and keyword search must take over without
	// surfacing an error.
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("API returned unexpected status code: 404 model not found")
	}
	store := newTestStore(t, vector.NewMemoryStore(embedder))

	stack, err := store.CreateStack(ctx, "Docs", "")
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, stack.ID, completedDoc("badgers.txt",
		"Badgers dig extensive burrows near woodland edges and riverbanks"))
	require.NoError(t, err)
	store.Flush()

	doc, err := store.ListDocuments(ctx, stack.ID)
	require.NoError(t, err)
	require.Len(t, doc, 1)
	assert.Equal(t, core.EmbeddingStatusFailed, doc[0].EmbeddingStatus)

	results, err := store.SearchDocuments(ctx, stack.ID, "badgers burrows", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "badgers.txt", results[0].Name)
}
