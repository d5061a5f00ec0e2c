// Package chi holds the HTTP API handlers for the paperdex service.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/domain/search/mode"
	"github.com/paperdex/paperdex/internal/domain/search/options"
	"github.com/paperdex/paperdex/internal/highlight"
	autocompleteuc "github.com/paperdex/paperdex/internal/usecase/autocomplete"
	healthuc "github.com/paperdex/paperdex/internal/usecase/health"
	searchuc "github.com/paperdex/paperdex/internal/usecase/search"
)

// Server holds the HTTP handlers and their use-case services.
type Server struct {
	search       *searchuc.Service
	autocomplete *autocompleteuc.Service
	health       *healthuc.Service
	logger       *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	autocomplete *autocompleteuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:       search,
		autocomplete: autocomplete,
		health:       health,
		logger:       logger,
	}
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Post("/autocomplete", s.handleAutocomplete)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query           string             `json:"query"`
	Limit           int                `json:"limit"`
	UseTimeDecay    bool               `json:"use_time_decay"`
	UseBoost        bool               `json:"use_boost"`
	UseBoostRanker  bool               `json:"use_boost_ranker"`
	HighlightMode   string             `json:"highlight_mode"`
	SearchMode      string             `json:"search_mode"`
	Filter          string             `json:"filter"`
	TimeDecayParams *options.TimeDecay `json:"time_decay_params"`
	BoostParams     *options.Boost     `json:"boost_params"`
}

// searchResponse is the POST /search reply. Options echoes back the
// effective parameters after validation and defaulting.
type searchResponse struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	Papers  []domain.Paper `json:"papers"`
	Options echoedOptions  `json:"options"`
}

type echoedOptions struct {
	UseTimeDecay   bool   `json:"use_time_decay"`
	UseBoost       bool   `json:"use_boost"`
	UseBoostRanker bool   `json:"use_boost_ranker"`
	HighlightMode  string `json:"highlight_mode"`
	SearchMode     string `json:"search_mode"`
	Limit          int    `json:"limit"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	opts, err := options.New(
		req.Query,
		mode.Mode(req.SearchMode),
		highlight.Mode(req.HighlightMode),
		req.Limit,
		req.UseTimeDecay, req.UseBoost, req.UseBoostRanker,
		req.TimeDecayParams,
		req.BoostParams,
		req.Filter,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	papers, err := s.search.Search(r.Context(), &opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if papers == nil {
		papers = []domain.Paper{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Query:   opts.Query(),
		Papers:  papers,
		Options: echoedOptions{
			UseTimeDecay:   opts.UseTimeDecay(),
			UseBoost:       opts.UseBoost(),
			UseBoostRanker: opts.UseBoostRanker(),
			HighlightMode:  string(opts.Highlight()),
			SearchMode:     string(opts.Mode()),
			Limit:          opts.Limit(),
		},
	})
}

// autocompleteRequest is the POST /autocomplete body.
type autocompleteRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	var req autocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	titles, err := s.autocomplete.Suggest(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"titles": titles})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps sentinel errors to HTTP statuses. Upstream
// collaborator failures surface as 502 with a safe message; everything else
// is an opaque 500.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, domain.ErrEmbeddingProviderError.Error())
	case errors.Is(err, domain.ErrVectorStoreError):
		writeError(w, http.StatusBadGateway, domain.ErrVectorStoreError.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the wire error shape: a single error field.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
