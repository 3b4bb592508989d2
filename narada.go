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

// Package narada wires storage, AI providers, web search and the research
// orchestrator into one application facade.
package narada

import (
	"log/slog"
	"path/filepath"

	"github.com/AishSoni/Narada-AI/ai"
	"github.com/AishSoni/Narada-AI/ai/openai"
	"github.com/AishSoni/Narada-AI/config"
	"github.com/AishSoni/Narada-AI/knowledge"
	"github.com/AishSoni/Narada-AI/research"
	"github.com/AishSoni/Narada-AI/vector"
	"github.com/AishSoni/Narada-AI/vector/chromem"
	"github.com/AishSoni/Narada-AI/websearch"
)

// App owns every long-lived component and tears them down in reverse
// construction order.
type App struct {
	backend   *knowledge.Backend
	provider  ai.Provider
	vectors   vector.Store
	knowledge *knowledge.Store
	web       websearch.Client
	engine    *research.Engine
	logger    *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	provider ai.Provider
	web      websearch.Client
	inMemory bool
}

// WithAIProvider injects a pre-built AI provider instead of constructing one
// from the settings. Used by tests to substitute mocks.
func WithAIProvider(provider ai.Provider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// WithWebClient injects a pre-built web search client.
func WithWebClient(client websearch.Client) AppOption {
	return func(o *appOptions) {
		o.web = client
	}
}

// WithInMemoryStorage keeps the knowledge store off disk. Vector storage
// stays in memory as well regardless of the configured vector DB provider.
func WithInMemoryStorage() AppOption {
	return func(o *appOptions) {
		o.inMemory = true
	}
}

// NewApp builds the application from resolved settings.
func NewApp(settings *config.Settings, opts ...AppOption) (*App, error) {
	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := knowledge.OpenBackend(filepath.Join(settings.DataDir, "knowledge"), options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(settings.AIConfig())
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	var vectors vector.Store
	if settings.VectorDBProvider == config.VectorDBChromem && !options.inMemory {
		var chromemOpts []chromem.Option
		if settings.EmbeddingDimensions > 0 {
			chromemOpts = append(chromemOpts, chromem.WithCollectionDimensions(settings.EmbeddingDimensions))
		}
		vectors, err = chromem.NewStore(
			filepath.Join(settings.DataDir, "vectors"),
			chromem.DefaultCollectionName,
			provider.Embedder(),
			chromemOpts...)
		if err != nil {
			provider.Close()
			backend.Close()
			return nil, err
		}
	} else {
		vectors = vector.NewMemoryStore(provider.Embedder())
	}

	knowledgeStore, err := knowledge.NewStore(backend, vectors)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	web := options.web
	if web == nil {
		web, err = websearch.New(settings.SearchProvider, settings.SearchAPIKey())
		if err != nil {
			knowledgeStore.Release()
			provider.Close()
			backend.Close()
			return nil, err
		}
	}

	engine, err := research.NewEngine(provider.ChatModel(), knowledgeStore, web)
	if err != nil {
		knowledgeStore.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &App{
		backend:   backend,
		provider:  provider,
		vectors:   vectors,
		knowledge: knowledgeStore,
		web:       web,
		engine:    engine,
		logger:    slog.Default(),
	}, nil
}

// Close releases all components in reverse construction order.
func (a *App) Close() error {
	a.engine.Release()
	a.knowledge.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// Knowledge returns the stack and document store.
func (a *App) Knowledge() *knowledge.Store {
	return a.knowledge
}

// Engine returns the research orchestrator.
func (a *App) Engine() *research.Engine {
	return a.engine
}

// Vectors returns the vector store backing similarity search.
func (a *App) Vectors() vector.Store {
	return a.vectors
}
