package search

import (
	"context"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/domain/search/ranker"
)

// StoreParams carries the per-request knobs forwarded to the vector database.
type StoreParams struct {
	Limit     int
	Filter    string
	Functions []ranker.Function
	// Highlight attaches the service-side lexical highlighter. Only honored
	// by the sparse (BM25) search path.
	Highlight bool
}

// VectorStore is the contract of the hosted vector database. All ranking
// (BM25, decay, boost, RRF fusion) executes on the service side; this layer
// only ships the parameter payloads.
type VectorStore interface {
	// SearchDense runs a KNN search over the dense vector field.
	SearchDense(ctx context.Context, vector []float32, p StoreParams) ([]domain.Paper, error)

	// SearchSparse runs a BM25 search over the sparse title field.
	SearchSparse(ctx context.Context, query string, p StoreParams) ([]domain.Paper, error)

	// SearchHybrid runs dense and sparse searches fused by RRF on the
	// service side. Rerank functions are not supported on this path.
	SearchHybrid(ctx context.Context, vector []float32, query string, p StoreParams) ([]domain.Paper, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
