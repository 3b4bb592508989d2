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


package core

import (
	"errors"
	"fmt"
)

// Domain errors shared across retrieval components.
var (
	// ErrKnowledgeStackNotFound indicates the requested stack id does not
	// resolve and no safe single-stack fallback applies.
	ErrKnowledgeStackNotFound = errors.New("knowledge stack not found")

	// ErrStackNameTaken indicates a stack with the same name (case-insensitive)
	// already exists. Uniqueness is enforced at creation time only.
	ErrStackNameTaken = errors.New("knowledge stack name already in use")

	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDuplicateDocument indicates a document with identical content already
	// exists in the stack.
	ErrDuplicateDocument = errors.New("duplicate document content in stack")

	// ErrEmbeddingUnavailable indicates an embedding-dependent operation was
	// attempted with no working embedding provider.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrSearchFailed is the catch-all for orchestrator-level failures not
	// otherwise classified.
	ErrSearchFailed = errors.New("search failed")
)

// ConfigurationError indicates a missing credential or URL for a selected
// provider. It is raised at adapter construction, not at call time, so
// misconfiguration is detected early.
type ConfigurationError struct {
	Provider string
	Missing  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s: missing %s", e.Provider, e.Missing)
}

// ProviderError indicates a non-success response or malformed payload from an
// external API. StatusCode is zero when no HTTP status was available.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
