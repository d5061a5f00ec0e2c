// Package session implements the interactive search session: the query input
// state machine with debounced autocomplete, keyboard navigation, and search
// result presentation.
package session

import (
	"strings"
	"unicode/utf8"

	"github.com/paperdex/paperdex/internal/domain"
	"github.com/paperdex/paperdex/internal/highlight"
)

// Result is a search hit prepared for display.
type Result struct {
	Paper domain.Paper

	// Title is the client-side highlighted title, split into matched and
	// unmatched segments. Concatenating the segments reproduces the title.
	Title []highlight.Segment

	// PreRendered is the service-side highlighted title markup, when the
	// service returned one. It is untrusted input and must be sanitized
	// before rendering as markup.
	PreRendered string
}

// State is the full observable state of a search session.
type State struct {
	Query           string
	Suggestions     []string
	Selected        int
	ShowSuggestions bool
	LastSeq         uint64
	Loading         bool
	ErrorMessage    string
	Results         []Result
}

// NewState returns the initial state: empty query, nothing selected.
func NewState() State {
	return State{Selected: -1}
}

// Rules holds the pure transition logic for session state.
type Rules struct {
	// MinPrefixLen is the minimum query length, in runes after trimming,
	// before suggestions are requested.
	MinPrefixLen int
}

// Apply returns the state after applying event. It never mutates s and has
// no side effects; scheduling and IO live in the Controller.
func (r Rules) Apply(s State, event Event) State {
	switch ev := event.(type) {
	case QueryChanged:
		s.Query = ev.Query
		if prefixLen(ev.Query) < r.MinPrefixLen {
			s = closeSuggestions(s)
			s.Suggestions = nil
		}
		return s

	case SuggestionsRequested:
		s.LastSeq = ev.Seq
		return s

	case SuggestionsLoaded:
		if ev.Seq != s.LastSeq {
			return s
		}
		s.Suggestions = ev.Titles
		s.ShowSuggestions = len(ev.Titles) > 0
		s.Selected = -1
		return s

	case SuggestionsFailed:
		if ev.Seq != s.LastSeq {
			return s
		}
		s.Suggestions = nil
		return closeSuggestions(s)

	case KeyPressed:
		return r.applyKey(s, ev.Key)

	case BlurElapsed:
		return closeSuggestions(s)

	case SuggestionClicked:
		if !s.ShowSuggestions || ev.Index < 0 || ev.Index >= len(s.Suggestions) {
			return s
		}
		s.Query = s.Suggestions[ev.Index]
		return closeSuggestions(s)

	case SearchStarted:
		s.Loading = true
		s.ErrorMessage = ""
		return closeSuggestions(s)

	case SearchLoaded:
		s.Loading = false
		s.ErrorMessage = ""
		s.Results = ev.Results
		return s

	case SearchFailed:
		s.Loading = false
		s.ErrorMessage = ev.Message
		s.Results = nil
		return s
	}
	return s
}

func (r Rules) applyKey(s State, key Key) State {
	switch key {
	case KeyArrowDown:
		if !s.ShowSuggestions || len(s.Suggestions) == 0 {
			return s
		}
		s.Selected = (s.Selected + 1) % len(s.Suggestions)
		return s

	case KeyArrowUp:
		if !s.ShowSuggestions || len(s.Suggestions) == 0 {
			return s
		}
		if s.Selected <= 0 {
			s.Selected = len(s.Suggestions) - 1
		} else {
			s.Selected--
		}
		return s

	case KeyEscape:
		return closeSuggestions(s)

	case KeyEnter:
		// Enter with an active selection only commits the suggestion text.
		// Submitting the search is a separate action.
		if s.ShowSuggestions && s.Selected >= 0 && s.Selected < len(s.Suggestions) {
			s.Query = s.Suggestions[s.Selected]
			return closeSuggestions(s)
		}
		return s
	}
	return s
}

func closeSuggestions(s State) State {
	s.ShowSuggestions = false
	s.Selected = -1
	return s
}

func prefixLen(query string) int {
	return utf8.RuneCountInString(strings.TrimSpace(query))
}
