// Package ai defines the provider-agnostic interfaces for text embedding and
// chat completion, plus the configuration shared by concrete providers.
//
// The retrieval components depend only on these interfaces; swapping an
// embedding or chat backend never touches retrieval logic.
package ai
