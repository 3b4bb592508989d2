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

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimensionality for the configured
	// model where knowable. The second return is false when the dimension
	// must be empirically detected with a probe embedding.
	Dimensions() (int, bool)
}

// ChatModel is the language-model collaborator used for query decomposition,
// confidence evaluation and answer synthesis. The provider-specific wire
// format stays behind this interface.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Generate produces a free-text completion for the given system and user
	// prompts.
	Generate(ctx context.Context, system, prompt string) (string, error)

	// GenerateJSON produces a completion constrained to JSON output.
	// Callers still need to parse defensively; models occasionally wrap the
	// object in markdown fences.
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and ChatModel instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ChatModel returns the chat completion service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
