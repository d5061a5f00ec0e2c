package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/highlight"
	"github.com/paperdex/paperdex/pkg/sdk"
)

// Searcher runs a search. *sdk.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, opts sdk.SearchOptions) (sdk.SearchResponse, error)
}

// Suggester fetches title suggestions. *sdk.Client satisfies it.
type Suggester interface {
	Autocomplete(ctx context.Context, query string, limit int) ([]string, error)
}

// Timing and sizing defaults for the input controller.
const (
	DefaultDebounceDelay  = 200 * time.Millisecond
	DefaultBlurCloseDelay = 150 * time.Millisecond
	DefaultMinPrefixLen   = 2
	DefaultSuggestLimit   = 5
	DefaultSearchLimit    = 10

	suggestTimeout = 5 * time.Second
)

// Config tunes the input controller. Zero fields take the defaults above.
type Config struct {
	// DebounceDelay is how long typing must pause before a suggestion
	// request fires. Each keystroke replaces the pending request.
	DebounceDelay time.Duration

	// BlurCloseDelay is how long the suggestion list stays open after the
	// input loses focus, so a click on a suggestion lands before the list
	// closes.
	BlurCloseDelay time.Duration

	MinPrefixLen int
	SuggestLimit int
	SearchLimit  int
}

func (c Config) withDefaults() Config {
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = DefaultDebounceDelay
	}
	if c.BlurCloseDelay <= 0 {
		c.BlurCloseDelay = DefaultBlurCloseDelay
	}
	if c.MinPrefixLen <= 0 {
		c.MinPrefixLen = DefaultMinPrefixLen
	}
	if c.SuggestLimit <= 0 {
		c.SuggestLimit = DefaultSuggestLimit
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	return c
}

// Controller drives a search session. It owns the timers and network calls
// and funnels every state change through Rules.Apply. All methods are safe
// for concurrent use.
type Controller struct {
	searcher  Searcher
	suggester Suggester
	cfg       Config
	rules     Rules
	logger    *zap.Logger

	mu       sync.Mutex
	state    State
	form     sdk.SearchOptions
	seq      uint64
	debounce *time.Timer
	blur     *time.Timer
}

// NewController creates a Controller over the given service clients.
func NewController(searcher Searcher, suggester Suggester, cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &Controller{
		searcher:  searcher,
		suggester: suggester,
		cfg:       cfg,
		rules:     Rules{MinPrefixLen: cfg.MinPrefixLen},
		logger:    logger,
		state:     NewState(),
	}
}

// SetForm replaces the search options applied on the next submit.
func (c *Controller) SetForm(form sdk.SearchOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// State returns a snapshot of the session state. The contained slices are
// shared with the controller and must be treated as read-only.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TypeQuery records a keystroke. A pending suggestion request is dropped and
// a new one is scheduled after the debounce delay, so a burst of keystrokes
// yields at most one request. Queries shorter than the minimum prefix close
// the list without requesting anything.
func (c *Controller) TypeQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopDebounce()
	c.state = c.rules.Apply(c.state, QueryChanged{Query: query})

	// Every keystroke invalidates in-flight requests, even when no new one
	// is scheduled.
	c.seq++
	seq := c.seq
	c.state = c.rules.Apply(c.state, SuggestionsRequested{Seq: seq})

	trimmed := strings.TrimSpace(query)
	if prefixLen(query) < c.cfg.MinPrefixLen {
		return
	}

	c.debounce = time.AfterFunc(c.cfg.DebounceDelay, func() {
		c.fetchSuggestions(seq, trimmed)
	})
}

func (c *Controller) fetchSuggestions(seq uint64, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
	defer cancel()

	titles, err := c.suggester.Autocomplete(ctx, query, c.cfg.SuggestLimit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Debug("autocomplete failed", zap.String("query", query), zap.Error(err))
		c.state = c.rules.Apply(c.state, SuggestionsFailed{Seq: seq})
		return
	}
	c.state = c.rules.Apply(c.state, SuggestionsLoaded{Seq: seq, Titles: titles})
}

// Key handles a keyboard event. Enter with a highlighted suggestion commits
// its text into the query; Enter with no selection submits the search.
func (c *Controller) Key(ctx context.Context, key Key) error {
	c.mu.Lock()

	if key == KeyEnter && !(c.state.ShowSuggestions && c.state.Selected >= 0) {
		c.mu.Unlock()
		return c.Submit(ctx)
	}

	defer c.mu.Unlock()
	if key == KeyEnter || key == KeyEscape {
		c.invalidatePending()
	}
	c.state = c.rules.Apply(c.state, KeyPressed{Key: key})
	return nil
}

// Blur schedules the suggestion list to close after the blur delay. A
// suggestion click within the delay cancels the close.
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopBlur()
	c.blur = time.AfterFunc(c.cfg.BlurCloseDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = c.rules.Apply(c.state, BlurElapsed{})
	})
}

// ClickSuggestion commits the suggestion at index into the query, winning
// over a pending blur close.
func (c *Controller) ClickSuggestion(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopBlur()
	c.invalidatePending()
	c.state = c.rules.Apply(c.state, SuggestionClicked{Index: index})
}

// Submit runs a search for the current query with the current form options.
// It is synchronous and gated: while a search is loading, further submits
// are dropped, so results always correspond to the query that was submitted.
// An empty query is a no-op.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if c.state.Loading {
		c.mu.Unlock()
		return nil
	}
	query := strings.TrimSpace(c.state.Query)
	if query == "" {
		c.mu.Unlock()
		return nil
	}

	c.invalidatePending()
	c.stopBlur()
	c.state = c.rules.Apply(c.state, SearchStarted{})

	opts := c.form
	if opts.Limit == 0 {
		opts.Limit = c.cfg.SearchLimit
	}
	hl := highlight.None
	if opts.HighlightMode == string(highlight.Lexical) {
		hl = highlight.Lexical
	}
	c.mu.Unlock()

	resp, err := c.searcher.Search(ctx, query, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		c.state = c.rules.Apply(c.state, SearchFailed{Message: userMessage(err)})
		return err
	}

	results := make([]Result, 0, len(resp.Papers))
	for _, paper := range resp.Papers {
		r := Result{
			Paper: paper,
			Title: highlight.Highlight(paper.Title, query, hl),
		}
		if paper.HighlightedTitle != nil {
			r.PreRendered = *paper.HighlightedTitle
		}
		results = append(results, r)
	}
	c.state = c.rules.Apply(c.state, SearchLoaded{Results: results})
	return nil
}

// Close stops all pending timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopDebounce()
	c.stopBlur()
}

// invalidatePending drops the debounce timer and bumps the sequence number
// so any request already in flight is discarded on arrival.
func (c *Controller) invalidatePending() {
	c.stopDebounce()
	c.seq++
	c.state = c.rules.Apply(c.state, SuggestionsRequested{Seq: c.seq})
}

func (c *Controller) stopDebounce() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

func (c *Controller) stopBlur() {
	if c.blur != nil {
		c.blur.Stop()
		c.blur = nil
	}
}

// userMessage maps an error to the message shown in the session. Structured
// service errors surface verbatim; everything else gets a generic message so
// transport details never leak into the view.
func userMessage(err error) string {
	var se *domain.ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "Search failed. Please try again."
}
