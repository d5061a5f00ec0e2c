package ranker

import (
	"testing"

	"github.com/paperdex/paperdex/internal/domain/search/mode"
	"github.com/paperdex/paperdex/internal/domain/search/options"
	"github.com/paperdex/paperdex/internal/highlight"
)

func makeOptions(t *testing.T, decay, boost, boostRanker bool) *options.Options {
	t.Helper()
	o, err := options.New("q", mode.Semantic, highlight.None, 10, decay, boost, boostRanker, nil, nil, "")
	if err != nil {
		t.Fatalf("options.New: %v", err)
	}
	return &o
}

func TestFromOptions_NoneEnabled(t *testing.T) {
	if fns := FromOptions(makeOptions(t, false, false, false)); fns != nil {
		t.Fatalf("expected nil functions, got %v", fns)
	}
}

func TestFromOptions_AllEnabled(t *testing.T) {
	fns := FromOptions(makeOptions(t, true, true, true))

	// decay + 3 boost tiers + 2 boost ranker entries
	if len(fns) != 6 {
		t.Fatalf("expected 6 functions, got %d", len(fns))
	}
	if fns[0].Name != "time_decay_exp" {
		t.Errorf("expected decay first, got %q", fns[0].Name)
	}
	for _, fn := range fns {
		if fn.FunctionType != "RERANK" {
			t.Errorf("function %q: expected RERANK type, got %q", fn.Name, fn.FunctionType)
		}
	}
}

func TestDecay_Payload(t *testing.T) {
	fn := Decay(options.DefaultTimeDecay())

	if len(fn.InputFieldNames) != 1 || fn.InputFieldNames[0] != "year" {
		t.Errorf("expected year input field, got %v", fn.InputFieldNames)
	}
	if fn.Params["reranker"] != "decay" || fn.Params["function"] != "exp" {
		t.Errorf("unexpected params: %v", fn.Params)
	}
	if fn.Params["origin"] != options.CurrentYear {
		t.Errorf("expected origin %d, got %v", options.CurrentYear, fn.Params["origin"])
	}
}

func TestBoostTiers_Filters(t *testing.T) {
	fns := BoostTiers(options.DefaultBoost())
	if len(fns) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(fns))
	}

	wantFilters := []string{
		"citationcount > 10 and citationcount <= 100",
		"citationcount > 100 and citationcount <= 1000",
		"citationcount > 1000",
	}
	wantWeights := []float64{1.1, 1.2, 1.5}
	for i, fn := range fns {
		if fn.Params["filter"] != wantFilters[i] {
			t.Errorf("tier %d: filter %v, want %q", i, fn.Params["filter"], wantFilters[i])
		}
		if fn.Params["weight"] != wantWeights[i] {
			t.Errorf("tier %d: weight %v, want %v", i, fn.Params["weight"], wantWeights[i])
		}
	}
}

func TestBoostRanker_Pair(t *testing.T) {
	fns := BoostRanker()
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
	if fns[0].Params["filter"] != "year >= 2022" || fns[0].Params["weight"] != 1.3 {
		t.Errorf("unexpected recency boost: %v", fns[0].Params)
	}
	if fns[1].Params["filter"] != "citationcount >= 500" || fns[1].Params["weight"] != 1.2 {
		t.Errorf("unexpected citation boost: %v", fns[1].Params)
	}
}
