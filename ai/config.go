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


package ai

import (
	"strings"

	"github.com/AishSoni/Narada-AI/core"
)

// ProviderKind identifies one member of the closed provider set. Selection
// happens once at construction via the factory; adding a provider is a
// localized variant addition here, not a scattered switch change.
type ProviderKind string

const (
	// ProviderOpenAI is the hosted OpenAI API.
	ProviderOpenAI ProviderKind = "openai"
	// ProviderOllama is a local Ollama server exposing the OpenAI-compatible /v1 API.
	ProviderOllama ProviderKind = "ollama"
	// ProviderOpenRouter is the OpenRouter aggregation API.
	ProviderOpenRouter ProviderKind = "openrouter"
	// ProviderCohere is Cohere's OpenAI-compatible compatibility endpoint.
	ProviderCohere ProviderKind = "cohere"
)

// Default endpoints per provider kind. Ollama has no hosted default and must
// be configured with an explicit URL.
const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	cohereBaseURL     = "https://api.cohere.ai/compatibility/v1"
)

// Default models per provider kind.
const (
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultOllamaEmbeddingModel = "nomic-embed-text"
	DefaultCohereEmbeddingModel = "embed-english-v3.0"
	DefaultOpenAIChatModel      = "gpt-4o-mini"
	DefaultOllamaChatModel      = "llama3.2"
	DefaultOpenRouterChatModel  = "openai/gpt-4o-mini"
)

// Config holds configuration for the embedding and chat providers.
// The two halves are independent so a local Ollama embedder can be paired
// with a hosted chat model.
type Config struct {
	// EmbeddingProvider selects the embedding backend.
	EmbeddingProvider ProviderKind
	// EmbeddingAPIKey is the credential for hosted embedding providers.
	EmbeddingAPIKey string
	// EmbeddingBaseURL overrides the provider's default endpoint.
	// Required for ollama.
	EmbeddingBaseURL string
	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string

	// ChatProvider selects the chat backend.
	ChatProvider ProviderKind
	// ChatAPIKey is the credential for hosted chat providers.
	ChatAPIKey string
	// ChatBaseURL overrides the provider's default endpoint.
	// Required for ollama.
	ChatBaseURL string
	// ChatModel is the chat model identifier.
	ChatModel string

	// Temperature applies to chat completions. Zero is deterministic and is
	// the right setting for decomposition and confidence scoring.
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbedding sets the embedding provider, model and credential.
func WithEmbedding(kind ProviderKind, model, apiKey string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingProvider = kind
		c.EmbeddingModel = model
		c.EmbeddingAPIKey = apiKey
	}
}

// WithEmbeddingBaseURL overrides the embedding endpoint URL.
func WithEmbeddingBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingBaseURL = url
	}
}

// WithChat sets the chat provider, model and credential.
func WithChat(kind ProviderKind, model, apiKey string) ConfigOption {
	return func(c *Config) {
		c.ChatProvider = kind
		c.ChatModel = model
		c.ChatAPIKey = apiKey
	}
}

// WithChatBaseURL overrides the chat endpoint URL.
func WithChatBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.ChatBaseURL = url
	}
}

// WithTemperature sets the chat completion temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// DefaultConfig returns a Config targeting hosted OpenAI for both halves.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    DefaultOpenAIEmbeddingModel,
		ChatProvider:      ProviderOpenAI,
		ChatModel:         DefaultOpenAIChatModel,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures endpoint URLs are in canonical form. Local OpenAI-compatible
// servers (Ollama, LocalAI, vLLM) require the /v1 suffix.
func (c *Config) Normalize() {
	c.EmbeddingBaseURL = ensureV1Suffix(c.EmbeddingBaseURL)
	c.ChatBaseURL = ensureV1Suffix(c.ChatBaseURL)
}

func ensureV1Suffix(url string) string {
	if url == "" || strings.HasSuffix(url, "/v1") {
		return url
	}
	return strings.TrimSuffix(url, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete. Missing
// credentials surface as ConfigurationError at construction time, per the
// fail-early policy. It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if err := validateHalf(c.EmbeddingProvider, c.EmbeddingAPIKey, c.EmbeddingBaseURL, c.EmbeddingModel); err != nil {
		return err
	}
	return validateHalf(c.ChatProvider, c.ChatAPIKey, c.ChatBaseURL, c.ChatModel)
}

func validateHalf(kind ProviderKind, apiKey, baseURL, model string) error {
	if model == "" {
		return &core.ConfigurationError{Provider: string(kind), Missing: "model"}
	}
	switch kind {
	case ProviderOpenAI, ProviderOpenRouter, ProviderCohere:
		if apiKey == "" {
			return &core.ConfigurationError{Provider: string(kind), Missing: "API key"}
		}
	case ProviderOllama:
		if baseURL == "" {
			return &core.ConfigurationError{Provider: string(kind), Missing: "base URL"}
		}
	default:
		return &core.ConfigurationError{Provider: string(kind), Missing: "supported provider kind"}
	}
	return nil
}

// EmbeddingEndpoint resolves the effective embedding base URL.
func (c *Config) EmbeddingEndpoint() string {
	if c.EmbeddingBaseURL != "" {
		return c.EmbeddingBaseURL
	}
	return defaultEndpoint(c.EmbeddingProvider)
}

// ChatEndpoint resolves the effective chat base URL.
func (c *Config) ChatEndpoint() string {
	if c.ChatBaseURL != "" {
		return c.ChatBaseURL
	}
	return defaultEndpoint(c.ChatProvider)
}

func defaultEndpoint(kind ProviderKind) string {
	switch kind {
	case ProviderOpenRouter:
		return openRouterBaseURL
	case ProviderCohere:
		return cohereBaseURL
	default:
		return openAIBaseURL
	}
}

// KnownDimensions returns the embedding dimensionality for well-known models.
// Returns false for models whose dimension must be detected empirically
// (notably anything served by Ollama).
func KnownDimensions(kind ProviderKind, model string) (int, bool) {
	switch kind {
	case ProviderOpenAI:
		switch {
		case strings.Contains(model, "text-embedding-3-small"):
			return 1536, true
		case strings.Contains(model, "text-embedding-3-large"):
			return 3072, true
		case strings.Contains(model, "ada-002"):
			return 1536, true
		}
		return 1536, true
	case ProviderCohere:
		switch {
		case strings.Contains(model, "embed-english-light-v3.0"):
			return 384, true
		case strings.Contains(model, "embed-english-v2.0"):
			return 4096, true
		case strings.Contains(model, "embed-english-v3.0"),
			strings.Contains(model, "embed-multilingual-v3.0"):
			return 1024, true
		}
		return 1024, true
	default:
		return 0, false
	}
}
