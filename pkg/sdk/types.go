package sdk

import (
	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/domain/search/options"
)

// SearchOptions are the client-side knobs for a search request. The zero
// value asks for a plain semantic search with service defaults.
type SearchOptions struct {
	Limit          int
	SearchMode     string
	HighlightMode  string
	UseTimeDecay   bool
	UseBoost       bool
	UseBoostRanker bool
	TimeDecay      *options.TimeDecay
	Boost          *options.Boost
	Filter         string
}

// SearchResponse is the reply to a search request. Options echoes the
// effective parameters after the service applied validation and defaults.
type SearchResponse struct {
	Success bool            `json:"success"`
	Query   string          `json:"query"`
	Papers  []domain.Paper  `json:"papers"`
	Options ResponseOptions `json:"options"`
}

// ResponseOptions is the effective parameter echo in a search response.
type ResponseOptions struct {
	UseTimeDecay   bool   `json:"use_time_decay"`
	UseBoost       bool   `json:"use_boost"`
	UseBoostRanker bool   `json:"use_boost_ranker"`
	HighlightMode  string `json:"highlight_mode"`
	SearchMode     string `json:"search_mode"`
	Limit          int    `json:"limit"`
}

// searchRequest is the wire shape of a search request body. Decay and boost
// parameter objects are omitted entirely when their toggle is off.
type searchRequest struct {
	Query           string             `json:"query"`
	Limit           int                `json:"limit,omitempty"`
	UseTimeDecay    bool               `json:"use_time_decay"`
	UseBoost        bool               `json:"use_boost"`
	UseBoostRanker  bool               `json:"use_boost_ranker"`
	HighlightMode   string             `json:"highlight_mode,omitempty"`
	SearchMode      string             `json:"search_mode,omitempty"`
	Filter          string             `json:"filter,omitempty"`
	TimeDecayParams *options.TimeDecay `json:"time_decay_params,omitempty"`
	BoostParams     *options.Boost     `json:"boost_params,omitempty"`
}

type autocompleteRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type autocompleteResponse struct {
	Titles []string `json:"titles"`
}

// HealthReport is the reply to a health request.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
