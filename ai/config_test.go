package ai

import (
	"testing"

	"github.com/AishSoni/Narada-AI/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("valid openai", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbedding(ProviderOpenAI, DefaultOpenAIEmbeddingModel, "sk-test"),
			WithChat(ProviderOpenAI, DefaultOpenAIChatModel, "sk-test"),
		)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("openai without key", func(t *testing.T) {
		cfg := NewConfig(WithEmbedding(ProviderOpenAI, DefaultOpenAIEmbeddingModel, ""))
		err := cfg.Validate()
		require.Error(t, err)
		var confErr *core.ConfigurationError
		require.ErrorAs(t, err, &confErr)
		assert.Equal(t, "openai", confErr.Provider)
	})

	t.Run("ollama without url", func(t *testing.T) {
		cfg := NewConfig(WithEmbedding(ProviderOllama, DefaultOllamaEmbeddingModel, ""))
		err := cfg.Validate()
		var confErr *core.ConfigurationError
		require.ErrorAs(t, err, &confErr)
		assert.Equal(t, "base URL", confErr.Missing)
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbedding(ProviderOpenAI, "", "sk-test"))
		var confErr *core.ConfigurationError
		require.ErrorAs(t, cfg.Validate(), &confErr)
		assert.Equal(t, "model", confErr.Missing)
	})

	t.Run("unknown kind", func(t *testing.T) {
		cfg := NewConfig(WithEmbedding(ProviderKind("bedrock"), "m", "k"))
		assert.Error(t, cfg.Validate())
	})
}

func TestConfigNormalize(t *testing.T) {
	cfg := NewConfig(
		WithEmbedding(ProviderOllama, DefaultOllamaEmbeddingModel, ""),
		WithEmbeddingBaseURL("http://localhost:11434"),
		WithChat(ProviderOllama, DefaultOllamaChatModel, ""),
		WithChatBaseURL("http://localhost:11434/"),
	)
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingBaseURL)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatBaseURL)

	// Already canonical URLs are left alone.
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingBaseURL)
}

func TestEndpointResolution(t *testing.T) {
	cfg := NewConfig(
		WithEmbedding(ProviderCohere, DefaultCohereEmbeddingModel, "key"),
		WithChat(ProviderOpenRouter, DefaultOpenRouterChatModel, "key"),
	)
	assert.Contains(t, cfg.EmbeddingEndpoint(), "cohere")
	assert.Contains(t, cfg.ChatEndpoint(), "openrouter")

	cfg.ChatBaseURL = "http://proxy.internal/v1"
	assert.Equal(t, "http://proxy.internal/v1", cfg.ChatEndpoint())
}

func TestKnownDimensions(t *testing.T) {
	d, ok := KnownDimensions(ProviderOpenAI, "text-embedding-3-small")
	assert.True(t, ok)
	assert.Equal(t, 1536, d)

	d, ok = KnownDimensions(ProviderOpenAI, "text-embedding-3-large")
	assert.True(t, ok)
	assert.Equal(t, 3072, d)

	d, ok = KnownDimensions(ProviderCohere, "embed-english-light-v3.0")
	assert.True(t, ok)
	assert.Equal(t, 384, d)

	_, ok = KnownDimensions(ProviderOllama, "nomic-embed-text")
	assert.False(t, ok)
}
