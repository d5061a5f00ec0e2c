package mode

// Mode is the search strategy executed by the vector database.
type Mode string

// Search mode constants.
const (
	// Semantic runs a dense KNN search over embedded queries.
	Semantic Mode = "semantic"
	// Keyword runs a BM25 sparse search over the title field.
	Keyword Mode = "keyword"
	// Hybrid combines dense and sparse search fused by RRF on the service side.
	Hybrid Mode = "hybrid"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Semantic || m == Keyword || m == Hybrid
}
