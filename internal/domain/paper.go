package domain

// Paper is a single ranked search result as returned by the vector database.
// The list is replaced wholesale on every search; there is no incremental merge.
type Paper struct {
	ID            string  `json:"id"`
	Score         float64 `json:"score"`
	CorpusID      int64   `json:"corpusid"`
	Title         string  `json:"title"`
	// HighlightedTitle is a pre-rendered HTML fragment supplied by the vector
	// database's server-side highlighter. It is relayed verbatim; renderers
	// must treat it as untrusted markup and sanitize before display.
	HighlightedTitle *string `json:"highlighted_title,omitempty"`
	Year             int     `json:"year"`
	CitationCount    int     `json:"citationcount"`
	URL              string  `json:"url"`
}
