// Package highlight decomposes result titles into matched and unmatched
// spans for rendering. Matching is lexical: case-insensitive, whole-token
// equality against the words of the query. The engine is only used for items
// the search service returned without a pre-rendered highlighted title.
package highlight

import (
	"regexp"
	"sort"
	"strings"
)

// Mode selects the highlighting behavior.
type Mode string

// Highlight mode constants.
const (
	None    Mode = "none"
	Lexical Mode = "lexical"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == None || m == Lexical
}

// Segment is a contiguous piece of the input text. Concatenating the Text of
// all segments in order reproduces the input exactly.
type Segment struct {
	Text    string
	Matched bool
}

// Highlight splits text into segments, marking pieces that equal one of the
// query words. With mode None or a blank query the text comes back unchanged
// as a single plain segment.
func Highlight(text, query string, mode Mode) []Segment {
	if mode != Lexical || strings.TrimSpace(query) == "" {
		return []Segment{{Text: text}}
	}

	words := queryWords(query)
	if len(words) == 0 {
		// Degenerate query: an empty alternation is not a valid pattern.
		return []Segment{{Text: text}}
	}

	re, err := compilePattern(words)
	if err != nil {
		return []Segment{{Text: text}}
	}

	wordSet := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordSet[w] = struct{}{}
	}

	var segments []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		piece := text[loc[0]:loc[1]]
		// Re-check the split result: a piece is highlighted only when it
		// equals a query word exactly, never when it merely contains one.
		_, matched := wordSet[strings.ToLower(piece)]
		segments = append(segments, Segment{Text: piece, Matched: matched})
		last = loc[1]
	}
	if last < len(text) || len(segments) == 0 {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// queryWords lowercases and splits the query on whitespace, dropping
// duplicates while keeping first-seen order.
func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		words = append(words, f)
	}
	return words
}

// compilePattern builds a case-insensitive alternation of the escaped query
// words. Longer words come first: RE2 alternation is leftmost-preferring, so
// without the ordering "auto" would shadow "automation".
func compilePattern(words []string) (*regexp.Regexp, error) {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile("(?i)(" + strings.Join(quoted, "|") + ")")
}
