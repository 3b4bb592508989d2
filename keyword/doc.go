// Package keyword ranks documents against a query without embeddings, using
// term-frequency cosine similarity with phrase and title boosts. It is the
// fallback retrieval path when vector search is unavailable or empty, and it
// also provides snippet extraction for vector hits.
package keyword
