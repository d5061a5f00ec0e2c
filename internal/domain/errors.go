package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals malformed or out-of-range search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreError signals a vector database failure.
	ErrVectorStoreError = errors.New("vector store error")
)

// ServiceError carries a structured error reported by the search service.
// The SDK returns it when a non-2xx response has a parseable error body;
// callers surface Message verbatim and fall back to a generic message for
// any other error.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("search service error %d: %s", e.StatusCode, e.Message)
}
