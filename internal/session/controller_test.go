package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/pkg/sdk"
)

// --- Mocks ---

type mockSuggester struct {
	mu      sync.Mutex
	calls   []string
	titles  []string
	err     error
	started chan string          // receives the query when a call begins, if set
	release map[string]chan bool // per-query gate, if set
}

func (m *mockSuggester) Autocomplete(_ context.Context, query string, _ int) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	started := m.started
	var gate chan bool
	if m.release != nil {
		gate = m.release[query]
	}
	m.mu.Unlock()

	if started != nil {
		started <- query
	}
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.titles, m.err
}

func (m *mockSuggester) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockSuggester) lastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1]
}

type mockSearcher struct {
	mu      sync.Mutex
	calls   int
	lastQ   string
	resp    sdk.SearchResponse
	err     error
	started chan struct{}
	release chan bool
}

func (m *mockSearcher) Search(_ context.Context, query string, _ sdk.SearchOptions) (sdk.SearchResponse, error) {
	m.mu.Lock()
	m.calls++
	m.lastQ = query
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	return m.resp, m.err
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func fastConfig() Config {
	return Config{
		DebounceDelay:  20 * time.Millisecond,
		BlurCloseDelay: 20 * time.Millisecond,
		MinPrefixLen:   2,
		SuggestLimit:   5,
		SearchLimit:    10,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// --- Tests ---

func TestController_DebounceCollapsesBurst(t *testing.T) {
	sugg := &mockSuggester{titles: []string{"Deep Learning"}}
	c := NewController(&mockSearcher{}, sugg, fastConfig(), nil)
	defer c.Close()

	for _, q := range []string{"d", "de", "dee", "deep", "deep l"} {
		c.TypeQuery(q)
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, func() bool { return sugg.callCount() == 1 })
	time.Sleep(50 * time.Millisecond)

	if n := sugg.callCount(); n != 1 {
		t.Fatalf("expected 1 request for the burst, got %d", n)
	}
	if got := sugg.lastCall(); got != "deep l" {
		t.Errorf("request carried %q, want the final query", got)
	}
	if st := c.State(); !st.ShowSuggestions || len(st.Suggestions) != 1 {
		t.Errorf("suggestions not shown: %+v", st)
	}
}

func TestController_ShortQueryNeverFetches(t *testing.T) {
	sugg := &mockSuggester{titles: []string{"x"}}
	c := NewController(&mockSearcher{}, sugg, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("a")
	time.Sleep(60 * time.Millisecond)

	if sugg.callCount() != 0 {
		t.Fatal("suggestion request fired below the minimum prefix")
	}
	if c.State().ShowSuggestions {
		t.Error("list must stay closed")
	}
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	sugg := &mockSuggester{
		started: make(chan string, 2),
		release: map[string]chan bool{
			"de":   make(chan bool),
			"deep": make(chan bool),
		},
	}
	c := NewController(&mockSearcher{}, sugg, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("de")
	<-sugg.started // first request in flight

	c.TypeQuery("deep")
	<-sugg.started // second request in flight

	// Let the newer request finish first, then the stale one.
	sugg.mu.Lock()
	sugg.titles = []string{"Deep Paper"}
	sugg.mu.Unlock()
	close(sugg.release["deep"])
	waitFor(t, func() bool {
		st := c.State()
		return len(st.Suggestions) == 1 && st.Suggestions[0] == "Deep Paper"
	})

	sugg.mu.Lock()
	sugg.titles = []string{"stale"}
	sugg.mu.Unlock()
	close(sugg.release["de"])
	time.Sleep(50 * time.Millisecond)

	if st := c.State(); len(st.Suggestions) != 1 || st.Suggestions[0] != "Deep Paper" {
		t.Fatalf("stale response overwrote suggestions: %+v", st.Suggestions)
	}
}

func TestController_ClickWinsOverBlur(t *testing.T) {
	sugg := &mockSuggester{titles: []string{"Deep Learning", "Deep Space"}}
	c := NewController(&mockSearcher{}, sugg, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep")
	waitFor(t, func() bool { return c.State().ShowSuggestions })

	c.Blur()
	c.ClickSuggestion(1)

	if st := c.State(); st.Query != "Deep Space" {
		t.Fatalf("click did not commit: %+v", st)
	}
	time.Sleep(50 * time.Millisecond)
	if st := c.State(); st.Query != "Deep Space" {
		t.Errorf("blur timer changed the committed query: %q", st.Query)
	}
}

func TestController_BlurAloneClosesList(t *testing.T) {
	sugg := &mockSuggester{titles: []string{"a"}}
	c := NewController(&mockSearcher{}, sugg, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep")
	waitFor(t, func() bool { return c.State().ShowSuggestions })

	c.Blur()
	waitFor(t, func() bool { return !c.State().ShowSuggestions })
}

func TestController_SubmitBuildsHighlightedResults(t *testing.T) {
	pre := "<mark class='lexical'>Vehicle</mark> Automation"
	searcher := &mockSearcher{resp: sdk.SearchResponse{
		Success: true,
		Papers: []domain.Paper{
			{ID: "1", Title: "Vehicle Automation Survey", HighlightedTitle: &pre},
			{ID: "2", Title: "Unrelated Work"},
		},
	}}
	c := NewController(searcher, &mockSuggester{}, fastConfig(), nil)
	defer c.Close()

	c.SetForm(sdk.SearchOptions{HighlightMode: "lexical", SearchMode: "keyword"})
	c.TypeQuery("vehicle automation")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := c.State()
	if st.Loading || len(st.Results) != 2 {
		t.Fatalf("unexpected state: %+v", st)
	}
	first := st.Results[0]
	if first.PreRendered != pre {
		t.Errorf("pre-rendered title not carried: %q", first.PreRendered)
	}
	var matched int
	for _, seg := range first.Title {
		if seg.Matched {
			matched++
		}
	}
	if matched != 2 {
		t.Errorf("expected Vehicle and Automation matched, got %d segments", matched)
	}
	if second := st.Results[1]; second.PreRendered != "" {
		t.Errorf("unexpected pre-rendered title: %q", second.PreRendered)
	}
}

func TestController_SubmitGatedWhileLoading(t *testing.T) {
	searcher := &mockSearcher{
		started: make(chan struct{}, 1),
		release: make(chan bool),
	}
	c := NewController(searcher, &mockSuggester{}, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep")

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-searcher.started

	// Second submit while loading is dropped.
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("gated submit returned error: %v", err)
	}
	close(searcher.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if searcher.callCount() != 1 {
		t.Fatalf("expected 1 search call, got %d", searcher.callCount())
	}
}

func TestController_SubmitEmptyQueryIsNoop(t *testing.T) {
	searcher := &mockSearcher{}
	c := NewController(searcher, &mockSuggester{}, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("   ")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.callCount() != 0 {
		t.Error("empty query must not search")
	}
}

func TestController_EnterSubmitsWhenNothingSelected(t *testing.T) {
	searcher := &mockSearcher{}
	c := NewController(searcher, &mockSuggester{}, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep learning")
	if err := c.Key(context.Background(), KeyEnter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.callCount() != 1 {
		t.Fatalf("expected enter to submit, got %d calls", searcher.callCount())
	}
}

func TestController_EnterCommitsSelectionWithoutSearching(t *testing.T) {
	sugg := &mockSuggester{titles: []string{"Deep Learning Models"}}
	searcher := &mockSearcher{}
	c := NewController(searcher, sugg, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep")
	waitFor(t, func() bool { return c.State().ShowSuggestions })

	ctx := context.Background()
	if err := c.Key(ctx, KeyArrowDown); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Key(ctx, KeyEnter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st := c.State(); st.Query != "Deep Learning Models" || st.ShowSuggestions {
		t.Fatalf("enter did not commit the selection: %+v", st)
	}
	if searcher.callCount() != 0 {
		t.Error("committing a suggestion must not search")
	}
}

func TestController_ServiceErrorSurfacesVerbatim(t *testing.T) {
	searcher := &mockSearcher{err: &domain.ServiceError{StatusCode: 400, Message: "query too long (max 1024 chars)"}}
	c := NewController(searcher, &mockSuggester{}, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	if msg := c.State().ErrorMessage; msg != "query too long (max 1024 chars)" {
		t.Errorf("expected verbatim service message, got %q", msg)
	}
}

func TestController_TransportErrorGetsGenericMessage(t *testing.T) {
	searcher := &mockSearcher{err: errors.New("dial tcp: connection refused")}
	c := NewController(searcher, &mockSuggester{}, fastConfig(), nil)
	defer c.Close()

	c.TypeQuery("deep")
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	msg := c.State().ErrorMessage
	if msg != "Search failed. Please try again." {
		t.Errorf("expected generic message, got %q", msg)
	}
}
