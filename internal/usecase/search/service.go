package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/domain/search/mode"
	"github.com/paperdex/paperdex/internal/domain/search/options"
	"github.com/paperdex/paperdex/internal/domain/search/ranker"
	"github.com/paperdex/paperdex/internal/highlight"
	"github.com/paperdex/paperdex/internal/metrics"
)

// Service dispatches searches to the vector database across semantic,
// keyword, and hybrid modes.
type Service struct {
	store VectorStore
	embed Embedder
}

// New creates a search service.
func New(store VectorStore, embed Embedder) *Service {
	return &Service{store: store, embed: embed}
}

// Search executes one search with the given options and returns the ranked
// papers as relayed from the vector database.
func (s *Service) Search(ctx context.Context, opts *options.Options) ([]domain.Paper, error) {
	papers, err := s.dispatch(ctx, opts)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(opts.Mode()), status).Inc()

	return papers, err
}

func (s *Service) dispatch(ctx context.Context, opts *options.Options) ([]domain.Paper, error) {
	params := StoreParams{
		Limit:     opts.Limit(),
		Filter:    opts.Filter(),
		Functions: ranker.FromOptions(opts),
	}

	switch opts.Mode() {
	case mode.Keyword:
		params.Highlight = opts.Highlight() == highlight.Lexical
		papers, err := s.store.SearchSparse(ctx, opts.Query(), params)
		if err != nil {
			return nil, fmt.Errorf("sparse search: %w", err)
		}
		return papers, nil

	case mode.Semantic:
		emb, err := s.embed.Embed(ctx, opts.Query())
		if err != nil {
			return nil, fmt.Errorf("vectorize query: %w", err)
		}
		papers, err := s.store.SearchDense(ctx, emb.Embedding, params)
		if err != nil {
			return nil, fmt.Errorf("dense search: %w", err)
		}
		return papers, nil

	case mode.Hybrid:
		emb, err := s.embed.Embed(ctx, opts.Query())
		if err != nil {
			return nil, fmt.Errorf("vectorize query: %w", err)
		}
		// The hybrid endpoint fuses with RRF and cannot carry rerank
		// functions, so none are sent on this path.
		params.Functions = nil
		papers, err := s.store.SearchHybrid(ctx, emb.Embedding, opts.Query(), params)
		if err != nil {
			return nil, fmt.Errorf("hybrid search: %w", err)
		}
		if opts.UseBoostRanker() {
			papers = applyBoostMultipliers(papers)
		}
		return papers, nil

	default:
		return nil, fmt.Errorf("%w: unsupported search mode %q", domain.ErrInvalidRequest, opts.Mode())
	}
}

// applyBoostMultipliers reproduces the boost ranker on scores the hybrid
// endpoint already fused: recent and highly cited papers are multiplied up,
// then the list is re-sorted by descending score.
func applyBoostMultipliers(papers []domain.Paper) []domain.Paper {
	for i := range papers {
		multiplier := 1.0
		if papers[i].Year >= ranker.RecencyYear {
			multiplier *= ranker.RecencyWeight
		}
		if papers[i].CitationCount >= ranker.CitationFloor {
			multiplier *= ranker.CitationWeight
		}
		papers[i].Score *= multiplier
	}
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].Score > papers[j].Score
	})
	return papers
}
