// Package vector stores chunk embeddings per stack and document and answers
// similarity queries. Two interchangeable backends satisfy the Store
// interface: a persistent chromem-go collection and an in-memory linear scan
// used as automatic fallback.
package vector
