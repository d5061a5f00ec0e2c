// Package milvus is an HTTP client for the hosted Milvus-style vector
// database REST API. The database owns all index structures and ranking
// functions; this client only serializes request payloads and relays the
// ranked hits back.
package milvus

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

// Field names in the papers collection.
const (
	denseField  = "vector"
	sparseField = "title_sparse"
)

// outputFields are the scalar fields requested with every search hit.
var outputFields = []string{"corpusid", "title", "year", "citationcount", "url"}

// Config holds the vector database connection settings.
type Config struct {
	BaseURL    string
	Token      string
	Collection string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the vector database REST API.
type Client struct {
	httpc      *http.Client
	baseURL    string
	token      string
	collection string
	logger     *zap.Logger
}

// NewClient creates a vector database client.
func NewClient(cfg Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpc:      httpc,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		collection: cfg.Collection,
		logger:     logger,
	}
}

// HealthCheck verifies reachability by describing the papers collection.
func (c *Client) HealthCheck(ctx context.Context) error {
	body := map[string]any{"collectionName": c.collection}
	var resp struct {
		Code int `json:"code"`
	}
	if err := c.do(ctx, "/v2/vectordb/collections/describe", body, &resp); err != nil {
		return fmt.Errorf("describe collection: %w", err)
	}
	return nil
}

// do posts a JSON body and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrVectorStoreError, err)
	}

	c.logger.Debug("vectordb request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrVectorStoreError, resp.StatusCode, snippet(data))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrVectorStoreError, err)
	}
	return nil
}

// snippet truncates an error body for log and error messages.
func snippet(data []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(data))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
