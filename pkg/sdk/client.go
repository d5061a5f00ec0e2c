// Package sdk is the Go client for the paperdex search service.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paperdex/paperdex/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client calls the paperdex HTTP API.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger attaches a logger for request-level debug logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a search for query with the given options. The decay and boost
// parameter objects are only sent when the corresponding toggle is on, so a
// disabled toggle never ships stale parameters to the service.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (SearchResponse, error) {
	req := searchRequest{
		Query:          query,
		Limit:          opts.Limit,
		UseTimeDecay:   opts.UseTimeDecay,
		UseBoost:       opts.UseBoost,
		UseBoostRanker: opts.UseBoostRanker,
		HighlightMode:  opts.HighlightMode,
		SearchMode:     opts.SearchMode,
		Filter:         opts.Filter,
	}
	if opts.UseTimeDecay {
		req.TimeDecayParams = opts.TimeDecay
	}
	if opts.UseBoost {
		req.BoostParams = opts.Boost
	}

	var resp SearchResponse
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return SearchResponse{}, err
	}
	if resp.Papers == nil {
		resp.Papers = []domain.Paper{}
	}
	return resp, nil
}

// Autocomplete returns title suggestions for a query prefix. A limit of zero
// asks for the service default.
func (c *Client) Autocomplete(ctx context.Context, query string, limit int) ([]string, error) {
	var resp autocompleteResponse
	if err := c.post(ctx, "/autocomplete", autocompleteRequest{Query: query, Limit: limit}, &resp); err != nil {
		return nil, err
	}
	if resp.Titles == nil {
		resp.Titles = []string{}
	}
	return resp.Titles, nil
}

// Health reports the service's view of its collaborators. A degraded service
// answers 503 with a report body, which is returned alongside the error.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("health request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("decode health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return report, fmt.Errorf("service unhealthy: %s", report.Status)
	}
	return report, nil
}

// post sends a JSON body and decodes the JSON reply. Non-2xx replies with a
// parseable error body become a *domain.ServiceError so callers can show the
// service's message verbatim.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serviceError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serviceError extracts the structured error body when present, otherwise
// reports the raw status.
func serviceError(status int, data []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return &domain.ServiceError{StatusCode: status, Message: body.Error}
	}
	return fmt.Errorf("unexpected status %d", status)
}
