package autocomplete

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockTitleStore struct {
	titles []string
	err    error

	called     bool
	lastFilter string
	lastLimit  int
}

func (m *mockTitleStore) QueryTitles(_ context.Context, filter string, limit int) ([]string, error) {
	m.called = true
	m.lastFilter = filter
	m.lastLimit = limit
	return m.titles, m.err
}

// --- Tests ---

func TestSuggest_BelowMinLengthSkipsStore(t *testing.T) {
	store := &mockTitleStore{}
	svc := New(store)

	for _, query := range []string{"", "a", "  a  ", "   "} {
		titles, err := svc.Suggest(context.Background(), query, 5)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if titles == nil || len(titles) != 0 {
			t.Errorf("query %q: expected empty non-nil slice, got %v", query, titles)
		}
	}
	if store.called {
		t.Error("store must not be queried below the minimum length")
	}
}

func TestSuggest_BuildsLikeFilter(t *testing.T) {
	store := &mockTitleStore{titles: []string{"Deep Learning"}}
	svc := New(store)

	titles, err := svc.Suggest(context.Background(), "  deep  ", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(titles) != 1 || titles[0] != "Deep Learning" {
		t.Errorf("unexpected titles: %v", titles)
	}
	if store.lastFilter != `title LIKE "%deep%"` {
		t.Errorf("unexpected filter: %s", store.lastFilter)
	}
}

func TestSuggest_EscapesWildcards(t *testing.T) {
	store := &mockTitleStore{}
	svc := New(store)

	if _, err := svc.Suggest(context.Background(), `50% under_score \path`, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `title LIKE "%50\% under\_score \\path%"`
	if store.lastFilter != want {
		t.Errorf("filter = %s, want %s", store.lastFilter, want)
	}
}

func TestSuggest_ClampsLimit(t *testing.T) {
	store := &mockTitleStore{}
	svc := New(store)

	if _, err := svc.Suggest(context.Background(), "deep", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastLimit != DefaultLimit {
		t.Errorf("zero limit: expected %d, got %d", DefaultLimit, store.lastLimit)
	}

	if _, err := svc.Suggest(context.Background(), "deep", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastLimit != MaxLimit {
		t.Errorf("oversized limit: expected %d, got %d", MaxLimit, store.lastLimit)
	}
}

func TestSuggest_NilStoreResultBecomesEmptySlice(t *testing.T) {
	svc := New(&mockTitleStore{titles: nil})

	titles, err := svc.Suggest(context.Background(), "deep", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if titles == nil {
		t.Fatal("expected non-nil empty slice")
	}
}

func TestSuggest_StoreErrorWrapped(t *testing.T) {
	storeErr := errors.New("down")
	svc := New(&mockTitleStore{err: storeErr})

	_, err := svc.Suggest(context.Background(), "deep", 5)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestWithMinPrefixLen(t *testing.T) {
	store := &mockTitleStore{}
	svc := New(store).WithMinPrefixLen(4)

	if _, err := svc.Suggest(context.Background(), "dee", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.called {
		t.Error("store queried below the raised minimum")
	}
}
