package milvus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/domain/search/ranker"
	"github.com/paperdex/paperdex/internal/usecase/autocomplete"
	searchuc "github.com/paperdex/paperdex/internal/usecase/search"
)

// Compile-time checks against the use-case contracts.
var (
	_ searchuc.VectorStore    = (*Client)(nil)
	_ autocomplete.TitleStore = (*Client)(nil)
)

// highlighter is the service-side lexical highlighter payload. Matches are
// wrapped in mark tags; fragment sizing keeps the whole title in one fragment.
type highlighter struct {
	Type                string   `json:"type"`
	PreTags             []string `json:"preTags"`
	PostTags            []string `json:"postTags"`
	FragmentOffset      int      `json:"fragmentOffset"`
	FragmentSize        int      `json:"fragmentSize"`
	HighlightSearchText bool     `json:"highlightSearchText"`
}

func lexicalHighlighter() *highlighter {
	return &highlighter{
		Type:                "lexical",
		PreTags:             []string{"<mark class='lexical'>"},
		PostTags:            []string{"</mark>"},
		FragmentOffset:      100,
		FragmentSize:        1000,
		HighlightSearchText: true,
	}
}

// searchRequest is the body of POST /v2/vectordb/entities/search.
type searchRequest struct {
	CollectionName string            `json:"collectionName"`
	Data           []any             `json:"data"`
	AnnsField      string            `json:"annsField"`
	Limit          int               `json:"limit"`
	OutputFields   []string          `json:"outputFields"`
	Filter         string            `json:"filter,omitempty"`
	SearchParams   map[string]any    `json:"searchParams,omitempty"`
	FunctionScore  *functionScore    `json:"functionScore,omitempty"`
	Highlighter    *highlighter      `json:"highlighter,omitempty"`
}

type functionScore struct {
	Functions []ranker.Function `json:"functions"`
}

// hybridRequest is the body of POST /v2/vectordb/entities/hybrid_search.
type hybridRequest struct {
	CollectionName string         `json:"collectionName"`
	Search         []annRequest   `json:"search"`
	Rerank         map[string]any `json:"rerank"`
	Limit          int            `json:"limit"`
	OutputFields   []string       `json:"outputFields"`
	Filter         string         `json:"filter,omitempty"`
}

type annRequest struct {
	Data         []any          `json:"data"`
	AnnsField    string         `json:"annsField"`
	Limit        int            `json:"limit"`
	SearchParams map[string]any `json:"searchParams,omitempty"`
}

// searchResponse is the common hit envelope.
type searchResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    []searchHit `json:"data"`
}

type searchHit struct {
	ID            any                          `json:"id"`
	Distance      *float64                     `json:"distance"`
	Score         *float64                     `json:"score"`
	CorpusID      int64                        `json:"corpusid"`
	Title         string                       `json:"title"`
	Year          int                          `json:"year"`
	CitationCount int                          `json:"citationcount"`
	URL           string                       `json:"url"`
	Highlight     map[string]highlightFragment `json:"highlight"`
}

type highlightFragment struct {
	Fragments []string `json:"fragments"`
}

// SearchDense runs a KNN search over the dense vector field.
func (c *Client) SearchDense(ctx context.Context, vector []float32, p searchuc.StoreParams) ([]domain.Paper, error) {
	req := searchRequest{
		CollectionName: c.collection,
		Data:           []any{vector},
		AnnsField:      denseField,
		Limit:          p.Limit,
		OutputFields:   outputFields,
		Filter:         p.Filter,
	}
	if len(p.Functions) > 0 {
		req.FunctionScore = &functionScore{Functions: p.Functions}
	}
	return c.search(ctx, "/v2/vectordb/entities/search", req)
}

// SearchSparse runs a BM25 search over the sparse title field, optionally
// with the service-side lexical highlighter attached.
func (c *Client) SearchSparse(ctx context.Context, query string, p searchuc.StoreParams) ([]domain.Paper, error) {
	req := searchRequest{
		CollectionName: c.collection,
		Data:           []any{query},
		AnnsField:      sparseField,
		Limit:          p.Limit,
		OutputFields:   outputFields,
		Filter:         p.Filter,
		SearchParams:   map[string]any{"metricType": "BM25"},
	}
	if len(p.Functions) > 0 {
		req.FunctionScore = &functionScore{Functions: p.Functions}
	}
	if p.Highlight {
		req.Highlighter = lexicalHighlighter()
	}
	return c.search(ctx, "/v2/vectordb/entities/search", req)
}

// SearchHybrid runs dense and sparse searches fused with RRF on the service side.
func (c *Client) SearchHybrid(ctx context.Context, vector []float32, query string, p searchuc.StoreParams) ([]domain.Paper, error) {
	req := hybridRequest{
		CollectionName: c.collection,
		Search: []annRequest{
			{Data: []any{vector}, AnnsField: denseField, Limit: p.Limit},
			{
				Data:         []any{query},
				AnnsField:    sparseField,
				Limit:        p.Limit,
				SearchParams: map[string]any{"metricType": "BM25"},
			},
		},
		Rerank:       map[string]any{"strategy": "rrf", "params": map[string]any{"k": 60}},
		Limit:        p.Limit,
		OutputFields: outputFields,
		Filter:       p.Filter,
	}
	return c.search(ctx, "/v2/vectordb/entities/hybrid_search", req)
}

func (c *Client) search(ctx context.Context, path string, req any) ([]domain.Paper, error) {
	var resp searchResponse
	if err := c.do(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%w: code %d: %s", domain.ErrVectorStoreError, resp.Code, resp.Message)
	}

	papers := make([]domain.Paper, 0, len(resp.Data))
	for _, hit := range resp.Data {
		papers = append(papers, hitToPaper(hit))
	}
	return papers, nil
}

func hitToPaper(hit searchHit) domain.Paper {
	p := domain.Paper{
		ID:            formatID(hit.ID),
		Score:         hitScore(hit),
		CorpusID:      hit.CorpusID,
		Title:         hit.Title,
		Year:          hit.Year,
		CitationCount: hit.CitationCount,
		URL:           hit.URL,
	}
	if frag, ok := hit.Highlight["title"]; ok && len(frag.Fragments) > 0 {
		highlighted := frag.Fragments[0]
		p.HighlightedTitle = &highlighted
	}
	return p
}

// hitScore prefers the reranked score and falls back to the raw distance.
func hitScore(hit searchHit) float64 {
	if hit.Score != nil {
		return *hit.Score
	}
	if hit.Distance != nil {
		return *hit.Distance
	}
	return 0
}

// formatID renders the primary key as a string whether the collection uses
// string or integer keys. Decoding uses json.Number, so integer keys keep
// their exact digits.
func formatID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// QueryTitles runs a scalar query returning only titles, used by autocomplete.
func (c *Client) QueryTitles(ctx context.Context, filter string, limit int) ([]string, error) {
	req := map[string]any{
		"collectionName": c.collection,
		"filter":         filter,
		"outputFields":   []string{"title"},
		"limit":          limit,
	}

	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := c.do(ctx, "/v2/vectordb/entities/query", req, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("%w: code %d: %s", domain.ErrVectorStoreError, resp.Code, resp.Message)
	}

	titles := make([]string, 0, len(resp.Data))
	for _, row := range resp.Data {
		titles = append(titles, row.Title)
	}
	return titles, nil
}
