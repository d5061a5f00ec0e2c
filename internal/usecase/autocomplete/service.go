// Package autocomplete suggests paper titles for a typed prefix via a
// substring LIKE query against the vector database.
package autocomplete

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/paperdex/paperdex/internal/metrics"
)

// Defaults for suggestion requests.
const (
	// DefaultMinPrefixLen matches the NGRAM index min_gram on the title
	// field: shorter substrings cannot use the index.
	DefaultMinPrefixLen = 2
	DefaultLimit        = 5
	MaxLimit            = 20
)

// Service serves title suggestions.
type Service struct {
	store        TitleStore
	minPrefixLen int
}

// New creates an autocomplete service.
func New(store TitleStore) *Service {
	return &Service{store: store, minPrefixLen: DefaultMinPrefixLen}
}

// WithMinPrefixLen overrides the minimum substring length gate.
func (s *Service) WithMinPrefixLen(n int) *Service {
	if n > 0 {
		s.minPrefixLen = n
	}
	return s
}

// Suggest returns up to limit titles containing the trimmed substring.
// Input below the minimum length yields an empty list, never an error.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	substring := strings.TrimSpace(query)
	if utf8.RuneCountInString(substring) < s.minPrefixLen {
		return []string{}, nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filter := `title LIKE "%` + escapeLike(substring) + `%"`
	titles, err := s.store.QueryTitles(ctx, filter, limit)
	if err != nil {
		metrics.AutocompleteRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("query titles: %w", err)
	}
	metrics.AutocompleteRequestsTotal.WithLabelValues("success").Inc()

	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// escapeLike escapes LIKE wildcards in user input so the substring matches
// literally. Backslash first, then percent and underscore.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
