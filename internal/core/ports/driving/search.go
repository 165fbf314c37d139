package driving

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// SearchService handles similarity search over the user's chunks
type SearchService interface {
	// Search embeds the query text and ranks the user's chunks by
	// cosine similarity
	Search(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error)

	// SearchByVector ranks the user's chunks against a caller-supplied
	// query vector, skipping the embedding call
	SearchByVector(ctx context.Context, userID string, vector []float32, opts *domain.SearchOptions) (*domain.SearchResult, error)
}
