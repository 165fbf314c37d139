package driving

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// DocumentService handles document reads and deletion, always scoped to
// the requesting user
type DocumentService interface {
	// Get retrieves a document owned by the user
	Get(ctx context.Context, userID, id string) (*domain.Document, error)

	// GetWithChunks retrieves a document and its chunks in position order
	GetWithChunks(ctx context.Context, userID, id string) (*domain.DocumentWithChunks, error)

	// List retrieves the user's documents in creation order
	List(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error)

	// Delete removes a document and its chunks
	Delete(ctx context.Context, userID, id string) error
}
