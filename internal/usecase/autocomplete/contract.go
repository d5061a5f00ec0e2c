package autocomplete

import "context"

// TitleStore runs scalar queries against the vector database's title field.
type TitleStore interface {
	QueryTitles(ctx context.Context, filter string, limit int) ([]string, error)
}
