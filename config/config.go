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

// Package config reads process configuration from the environment.
// Provider selection, credentials and model names all arrive as env vars;
// constructors take the resulting Settings so nothing else in the tree
// touches os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AishSoni/Narada-AI/ai"
	"github.com/AishSoni/Narada-AI/websearch"
)

// Environment variable names.
const (
	EnvLLMProvider       = "LLM_PROVIDER"
	EnvEmbeddingProvider = "EMBEDDING_PROVIDER"
	EnvSearchProvider    = "SEARCH_API_PROVIDER"
	EnvVectorDBProvider  = "VECTOR_DB_PROVIDER"

	EnvOpenAIAPIKey         = "OPENAI_API_KEY"
	EnvOpenAILLMModel       = "OPENAI_LLM_MODEL"
	EnvOpenAIEmbeddingModel = "OPENAI_EMBEDDING_MODEL"

	EnvOllamaAPIURL         = "OLLAMA_API_URL"
	EnvOllamaLLMModel       = "OLLAMA_LLM_MODEL"
	EnvOllamaEmbeddingURL   = "OLLAMA_EMBEDDING_URL"
	EnvOllamaEmbeddingModel = "OLLAMA_EMBEDDING_MODEL"

	EnvOpenRouterAPIKey   = "OPENROUTER_API_KEY"
	EnvOpenRouterLLMModel = "OPENROUTER_LLM_MODEL"

	EnvCohereAPIKey         = "COHERE_API_KEY"
	EnvCohereEmbeddingModel = "COHERE_EMBEDDING_MODEL"

	EnvTavilyAPIKey = "TAVILY_API_KEY"
	EnvSerpAPIKey   = "SERP_API_KEY"

	EnvEmbeddingDimensions = "EMBEDDING_DIMENSIONS"

	EnvDataDir    = "NARADA_DATA_DIR"
	EnvListenAddr = "NARADA_LISTEN_ADDR"
)

// VectorDBChromem selects the persistent chromem backend. An empty
// VECTOR_DB_PROVIDER keeps vectors in memory.
const VectorDBChromem = "chromem"

const (
	defaultDataDir    = "./narada-data"
	defaultListenAddr = ":8080"
)

// Settings is the resolved process configuration.
type Settings struct {
	DataDir    string
	ListenAddr string

	LLMProvider       ai.ProviderKind
	EmbeddingProvider ai.ProviderKind
	SearchProvider    string
	VectorDBProvider  string

	OpenAIAPIKey         string
	OpenAILLMModel       string
	OpenAIEmbeddingModel string

	OllamaAPIURL         string
	OllamaLLMModel       string
	OllamaEmbeddingURL   string
	OllamaEmbeddingModel string

	OpenRouterAPIKey   string
	OpenRouterLLMModel string

	CohereAPIKey         string
	CohereEmbeddingModel string

	TavilyAPIKey string
	SerpAPIKey   string

	// EmbeddingDimensions overrides dimension auto-detection. Zero means
	// detect from the model.
	EmbeddingDimensions int
}

// Load reads Settings from the environment. Unset selectors fall back to
// openai for models and duckduckgo for search, which is the only keyless
// provider.
func Load() (*Settings, error) {
	s := &Settings{
		DataDir:    envOr(EnvDataDir, defaultDataDir),
		ListenAddr: envOr(EnvListenAddr, defaultListenAddr),

		LLMProvider:       ai.ProviderKind(envOr(EnvLLMProvider, string(ai.ProviderOpenAI))),
		EmbeddingProvider: ai.ProviderKind(envOr(EnvEmbeddingProvider, string(ai.ProviderOpenAI))),
		SearchProvider:    envOr(EnvSearchProvider, websearch.ProviderDuckDuckGo),
		VectorDBProvider:  os.Getenv(EnvVectorDBProvider),

		OpenAIAPIKey:         os.Getenv(EnvOpenAIAPIKey),
		OpenAILLMModel:       os.Getenv(EnvOpenAILLMModel),
		OpenAIEmbeddingModel: os.Getenv(EnvOpenAIEmbeddingModel),

		OllamaAPIURL:         os.Getenv(EnvOllamaAPIURL),
		OllamaLLMModel:       os.Getenv(EnvOllamaLLMModel),
		OllamaEmbeddingURL:   os.Getenv(EnvOllamaEmbeddingURL),
		OllamaEmbeddingModel: os.Getenv(EnvOllamaEmbeddingModel),

		OpenRouterAPIKey:   os.Getenv(EnvOpenRouterAPIKey),
		OpenRouterLLMModel: os.Getenv(EnvOpenRouterLLMModel),

		CohereAPIKey:         os.Getenv(EnvCohereAPIKey),
		CohereEmbeddingModel: os.Getenv(EnvCohereEmbeddingModel),

		TavilyAPIKey: os.Getenv(EnvTavilyAPIKey),
		SerpAPIKey:   os.Getenv(EnvSerpAPIKey),
	}

	if raw := os.Getenv(EnvEmbeddingDimensions); raw != "" {
		dims, err := strconv.Atoi(raw)
		if err != nil || dims <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvEmbeddingDimensions, raw)
		}
		s.EmbeddingDimensions = dims
	}

	switch s.LLMProvider {
	case ai.ProviderOpenAI, ai.ProviderOllama, ai.ProviderOpenRouter:
	default:
		return nil, fmt.Errorf("%s: unsupported provider %q", EnvLLMProvider, s.LLMProvider)
	}
	switch s.EmbeddingProvider {
	case ai.ProviderOpenAI, ai.ProviderOllama, ai.ProviderCohere:
	default:
		return nil, fmt.Errorf("%s: unsupported provider %q", EnvEmbeddingProvider, s.EmbeddingProvider)
	}
	switch s.SearchProvider {
	case websearch.ProviderTavily, websearch.ProviderSerp, websearch.ProviderDuckDuckGo:
	default:
		return nil, fmt.Errorf("%s: unsupported provider %q", EnvSearchProvider, s.SearchProvider)
	}
	if s.VectorDBProvider != "" && s.VectorDBProvider != VectorDBChromem {
		return nil, fmt.Errorf("%s: unsupported provider %q", EnvVectorDBProvider, s.VectorDBProvider)
	}

	return s, nil
}

// AIConfig maps the environment selection onto the provider config. The
// embedding and chat halves resolve independently.
func (s *Settings) AIConfig() *ai.Config {
	opts := make([]ai.ConfigOption, 0, 4)

	switch s.EmbeddingProvider {
	case ai.ProviderOllama:
		opts = append(opts,
			ai.WithEmbedding(ai.ProviderOllama,
				orDefault(s.OllamaEmbeddingModel, ai.DefaultOllamaEmbeddingModel), ""),
			ai.WithEmbeddingBaseURL(orDefault(s.OllamaEmbeddingURL, s.OllamaAPIURL)))
	case ai.ProviderCohere:
		opts = append(opts,
			ai.WithEmbedding(ai.ProviderCohere,
				orDefault(s.CohereEmbeddingModel, ai.DefaultCohereEmbeddingModel), s.CohereAPIKey))
	default:
		opts = append(opts,
			ai.WithEmbedding(ai.ProviderOpenAI,
				orDefault(s.OpenAIEmbeddingModel, ai.DefaultOpenAIEmbeddingModel), s.OpenAIAPIKey))
	}

	switch s.LLMProvider {
	case ai.ProviderOllama:
		opts = append(opts,
			ai.WithChat(ai.ProviderOllama,
				orDefault(s.OllamaLLMModel, ai.DefaultOllamaChatModel), ""),
			ai.WithChatBaseURL(s.OllamaAPIURL))
	case ai.ProviderOpenRouter:
		opts = append(opts,
			ai.WithChat(ai.ProviderOpenRouter,
				orDefault(s.OpenRouterLLMModel, ai.DefaultOpenRouterChatModel), s.OpenRouterAPIKey))
	default:
		opts = append(opts,
			ai.WithChat(ai.ProviderOpenAI,
				orDefault(s.OpenAILLMModel, ai.DefaultOpenAIChatModel), s.OpenAIAPIKey))
	}

	return ai.NewConfig(opts...)
}

// SearchAPIKey returns the credential for the selected search provider.
// DuckDuckGo needs none.
func (s *Settings) SearchAPIKey() string {
	switch s.SearchProvider {
	case websearch.ProviderTavily:
		return s.TavilyAPIKey
	case websearch.ProviderSerp:
		return s.SerpAPIKey
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
