package options

import (
	"strings"
	"testing"

	"github.com/paperdex/paperdex/internal/domain/search/mode"
	"github.com/paperdex/paperdex/internal/highlight"
)

func TestNew_TrimsQuery(t *testing.T) {
	o, err := New("  deep learning  ", mode.Semantic, highlight.None, 10, false, false, false, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Query() != "deep learning" {
		t.Errorf("query not trimmed: %q", o.Query())
	}
}

func TestNew_RejectsEmptyQuery(t *testing.T) {
	if _, err := New("   ", mode.Semantic, highlight.None, 10, false, false, false, nil, nil, ""); err == nil {
		t.Fatal("expected error for blank query")
	}
}

func TestNew_RejectsOverlongQuery(t *testing.T) {
	long := strings.Repeat("a", MaxQueryLength+1)
	if _, err := New(long, mode.Semantic, highlight.None, 10, false, false, false, nil, nil, ""); err == nil {
		t.Fatal("expected error for overlong query")
	}
}

func TestNew_InfersModeFromHighlight(t *testing.T) {
	// Lexical highlighting needs the sparse field, so it implies keyword.
	o, err := New("q", "", highlight.Lexical, 0, false, false, false, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Mode() != mode.Keyword {
		t.Errorf("expected keyword mode, got %q", o.Mode())
	}

	o, err = New("q", "", highlight.None, 0, false, false, false, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Mode() != mode.Semantic {
		t.Errorf("expected semantic mode, got %q", o.Mode())
	}
}

func TestNew_RejectsUnknownModes(t *testing.T) {
	if _, err := New("q", mode.Mode("fuzzy"), highlight.None, 0, false, false, false, nil, nil, ""); err == nil {
		t.Error("expected error for unknown search mode")
	}
	if _, err := New("q", mode.Semantic, highlight.Mode("neon"), 0, false, false, false, nil, nil, ""); err == nil {
		t.Error("expected error for unknown highlight mode")
	}
}

func TestNew_ClampsLimit(t *testing.T) {
	o, _ := New("q", mode.Semantic, highlight.None, 0, false, false, false, nil, nil, "")
	if o.Limit() != DefaultLimit {
		t.Errorf("zero limit: expected default %d, got %d", DefaultLimit, o.Limit())
	}

	o, _ = New("q", mode.Semantic, highlight.None, MaxLimit+50, false, false, false, nil, nil, "")
	if o.Limit() != MaxLimit {
		t.Errorf("oversized limit: expected %d, got %d", MaxLimit, o.Limit())
	}
}

func TestNew_DefaultsDecayParamsWhenEnabled(t *testing.T) {
	o, err := New("q", mode.Semantic, highlight.None, 0, true, false, false, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TimeDecay() != DefaultTimeDecay() {
		t.Errorf("expected default decay params, got %+v", o.TimeDecay())
	}
}

func TestNew_IgnoresDecayParamsWhenDisabled(t *testing.T) {
	td := TimeDecay{Origin: 1990, Offset: 1, Decay: 0.5, Scale: 2}
	o, err := New("q", mode.Semantic, highlight.None, 0, false, false, false, &td, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.TimeDecay() != (TimeDecay{}) {
		t.Errorf("decay params retained while toggle off: %+v", o.TimeDecay())
	}
}

func TestNew_ValidatesDecayRange(t *testing.T) {
	td := DefaultTimeDecay()
	td.Decay = 1.5
	if _, err := New("q", mode.Semantic, highlight.None, 0, true, false, false, &td, nil, ""); err == nil {
		t.Fatal("expected error for decay outside [0, 1]")
	}
}

func TestNew_ValidatesBoostShape(t *testing.T) {
	b := Boost{CitationThresholds: []int{10, 100}, Weights: []float64{1.1, 1.2}}
	if _, err := New("q", mode.Semantic, highlight.None, 0, false, true, false, nil, &b, ""); err == nil {
		t.Fatal("expected error for boost params without 3 tiers")
	}

	o, err := New("q", mode.Semantic, highlight.None, 0, false, true, false, nil, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := o.Boost()
	want := DefaultBoost()
	if len(got.CitationThresholds) != 3 || got.CitationThresholds[2] != want.CitationThresholds[2] {
		t.Errorf("expected default boost params, got %+v", got)
	}
}
