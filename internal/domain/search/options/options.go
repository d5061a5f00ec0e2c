// Package options holds the validated per-search parameter set. An Options
// value is constructed fresh for every search invocation and is immutable
// once built.
package options

import (
	"fmt"
	"strings"

	"github.com/paperdex/paperdex/internal/domain/search/mode"
	"github.com/paperdex/paperdex/internal/highlight"
)

// Search parameter limits and defaults.
const (
	MaxQueryLength = 1024
	DefaultLimit   = 10
	MaxLimit       = 100

	// CurrentYear anchors the default time-decay origin.
	CurrentYear = 2026
)

// TimeDecay parametrizes the service-side exponential decay reranker over
// the publication year.
type TimeDecay struct {
	Origin int     `json:"origin"`
	Offset int     `json:"offset"`
	Decay  float64 `json:"decay"`
	Scale  float64 `json:"scale"`
}

// DefaultTimeDecay returns the decay parameters used when the toggle is on
// but no explicit parameters were supplied.
func DefaultTimeDecay() TimeDecay {
	return TimeDecay{Origin: CurrentYear, Offset: 5, Decay: 0.8, Scale: 8}
}

// Boost parametrizes the service-side citation-count tier boosting.
type Boost struct {
	CitationThresholds []int     `json:"citation_thresholds"`
	Weights            []float64 `json:"weights"`
}

// DefaultBoost returns the citation tier boundaries and weights used when
// the toggle is on but no explicit parameters were supplied.
func DefaultBoost() Boost {
	return Boost{
		CitationThresholds: []int{10, 100, 1000},
		Weights:            []float64{1.1, 1.2, 1.5},
	}
}

// Options is a validated, immutable search parameter set.
type Options struct {
	query          string
	searchMode     mode.Mode
	highlightMode  highlight.Mode
	limit          int
	useTimeDecay   bool
	useBoost       bool
	useBoostRanker bool
	timeDecay      TimeDecay
	boost          Boost
	filter         string
}

// New validates and normalizes search parameters.
//
// An empty search mode is inferred from the highlight mode for backward
// compatibility: lexical highlighting requires the sparse BM25 field, so it
// implies keyword search; everything else defaults to semantic. Decay and
// boost parameters are retained only when the corresponding toggle is on.
func New(
	query string,
	m mode.Mode,
	hl highlight.Mode,
	limit int,
	useTimeDecay, useBoost, useBoostRanker bool,
	timeDecay *TimeDecay,
	boost *Boost,
	filter string,
) (Options, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Options{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Options{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}

	if hl == "" {
		hl = highlight.None
	}
	if !hl.IsValid() {
		return Options{}, fmt.Errorf("invalid highlight mode: %q", hl)
	}

	if m == "" {
		if hl == highlight.Lexical {
			m = mode.Keyword
		} else {
			m = mode.Semantic
		}
	}
	if !m.IsValid() {
		return Options{}, fmt.Errorf("invalid search mode: %q", m)
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	o := Options{
		query:          query,
		searchMode:     m,
		highlightMode:  hl,
		limit:          limit,
		useTimeDecay:   useTimeDecay,
		useBoost:       useBoost,
		useBoostRanker: useBoostRanker,
		filter:         filter,
	}

	if useTimeDecay {
		td := DefaultTimeDecay()
		if timeDecay != nil {
			td = *timeDecay
		}
		if td.Decay < 0 || td.Decay > 1 {
			return Options{}, fmt.Errorf("time decay must be between 0 and 1")
		}
		o.timeDecay = td
	}

	if useBoost {
		b := DefaultBoost()
		if boost != nil {
			b = *boost
		}
		if len(b.CitationThresholds) != 3 || len(b.Weights) != 3 {
			return Options{}, fmt.Errorf("boost params require 3 thresholds and 3 weights")
		}
		o.boost = b
	}

	return o, nil
}

// Query returns the trimmed search query text.
func (o *Options) Query() string { return o.query }

// Mode returns the search strategy.
func (o *Options) Mode() mode.Mode { return o.searchMode }

// Highlight returns the highlight mode.
func (o *Options) Highlight() highlight.Mode { return o.highlightMode }

// Limit returns the maximum results to return.
func (o *Options) Limit() int { return o.limit }

// UseTimeDecay reports whether the decay reranker is enabled.
func (o *Options) UseTimeDecay() bool { return o.useTimeDecay }

// UseBoost reports whether citation tier boosting is enabled.
func (o *Options) UseBoost() bool { return o.useBoost }

// UseBoostRanker reports whether the recency/citation boost ranker is enabled.
func (o *Options) UseBoostRanker() bool { return o.useBoostRanker }

// TimeDecay returns the decay parameters. Meaningful only when UseTimeDecay.
func (o *Options) TimeDecay() TimeDecay { return o.timeDecay }

// Boost returns the boost parameters. Meaningful only when UseBoost.
func (o *Options) Boost() Boost { return o.boost }

// Filter returns the optional scalar filter expression, passed through to
// the vector database untouched.
func (o *Options) Filter() string { return o.filter }
