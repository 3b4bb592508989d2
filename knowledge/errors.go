package knowledge

import "errors"

var (
	// ErrBackendRequired is returned when no storage backend is provided.
	ErrBackendRequired = errors.New("storage backend is required")
	// ErrVectorStoreRequired is returned when no vector store is provided.
	ErrVectorStoreRequired = errors.New("vector store is required")
)
