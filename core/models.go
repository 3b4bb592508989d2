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
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocumentStatus tracks the outcome of text extraction for an uploaded document.
type DocumentStatus string

const (
	// DocumentStatusProcessing means extraction has not finished yet.
	DocumentStatusProcessing DocumentStatus = "processing"
	// DocumentStatusCompleted means extraction succeeded and content is available.
	DocumentStatusCompleted DocumentStatus = "completed"
	// DocumentStatusFailed means extraction failed; the document carries no content.
	DocumentStatusFailed DocumentStatus = "failed"
)

// EmbeddingStatus tracks the background embedding job attached to a document.
// Embedding is best-effort: a failed status never invalidates the document,
// it only means the document is keyword-searchable rather than vector-searchable.
type EmbeddingStatus string

const (
	// EmbeddingStatusPending means the embedding job is queued or running.
	EmbeddingStatusPending EmbeddingStatus = "pending"
	// EmbeddingStatusSucceeded means chunk embeddings were stored.
	EmbeddingStatusSucceeded EmbeddingStatus = "succeeded"
	// EmbeddingStatusFailed means the embedding job failed; keyword search still works.
	EmbeddingStatusFailed EmbeddingStatus = "failed"
	// EmbeddingStatusSkipped means no embedding provider was configured.
	EmbeddingStatusSkipped EmbeddingStatus = "skipped"
)

// KnowledgeStack is a named, user-defined collection of documents used for
// private retrieval-augmented search.
type KnowledgeStack struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	DocumentsCount int       `json:"documentsCount"`
	Size           string    `json:"size"` // human-readable, recomputed on document mutation
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// DocumentMetadata carries provenance details captured at extraction time.
type DocumentMetadata struct {
	PageCount int    `json:"pageCount,omitempty"`
	WordCount int    `json:"wordCount,omitempty"`
	FileType  string `json:"fileType,omitempty"`
}

// Document is a single uploaded file inside a knowledge stack.
// Extraction is synchronous, so Status is already known at creation time.
type Document struct {
	ID              string            `json:"id"`
	StackID         string            `json:"stackId"`
	Name            string            `json:"name"`
	Type            string            `json:"type"`
	Size            string            `json:"size"`
	UploadedAt      time.Time         `json:"uploadedAt"`
	Status          DocumentStatus    `json:"status"`
	EmbeddingStatus EmbeddingStatus   `json:"embeddingStatus,omitempty"`
	Content         string            `json:"content,omitempty"`
	Checksum        string            `json:"checksum,omitempty"`
	Metadata        *DocumentMetadata `json:"metadata,omitempty"`
}

// Searchable reports whether the document can participate in retrieval.
func (d *Document) Searchable() bool {
	return d.Status == DocumentStatusCompleted && d.Content != ""
}

// SearchResult is one retrieval hit from a knowledge stack.
// Results are produced fresh per query and never cached across queries.
type SearchResult struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Score    float64           `json:"score"` // in [0,1], higher is more relevant
	Content  string            `json:"content"`
	Snippet  string            `json:"snippet"`
	Metadata *DocumentMetadata `json:"metadata,omitempty"`
}

// ExtractedQuery is one decomposed sub-intent of the original user query,
// carrying its own narrower search string.
type ExtractedQuery struct {
	Question    string `json:"question"`
	SearchQuery string `json:"searchQuery"`
}

// Source is one cited piece of evidence in a final answer. Knowledge-stack
// sources use the synthetic knowledge:// URL scheme.
type Source struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content,omitempty"`
	Quality float64 `json:"quality"`
	Summary string  `json:"summary,omitempty"`
}

// KnowledgeURLScheme prefixes synthetic URLs for knowledge-stack sources.
const KnowledgeURLScheme = "knowledge://"

// ChecksumFromContent computes a deterministic content checksum using BLAKE2b.
// Identical content always produces identical checksums, which lets the
// knowledge store detect duplicate uploads within a stack.
func ChecksumFromContent(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeStackName canonicalizes a stack name for case-insensitive
// uniqueness checks.
func NormalizeStackName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
