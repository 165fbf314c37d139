package driven

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL).
// Every read and delete is scoped to the owning user: a lookup with the
// wrong user behaves exactly like a miss.
type DocumentStore interface {
	// Save creates a document
	Save(ctx context.Context, doc *domain.Document) error

	// SaveWithChunks creates a document and its chunks in one transaction
	SaveWithChunks(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk) error

	// Get retrieves a document owned by userID
	Get(ctx context.Context, userID, id string) (*domain.Document, error)

	// GetByUser retrieves the user's documents in creation order with pagination
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error)

	// Delete deletes a document owned by userID
	Delete(ctx context.Context, userID, id string) error

	// CountByUser returns the user's document count
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ChunkStore handles chunk persistence (PostgreSQL)
type ChunkStore interface {
	// SaveBatch saves multiple chunks in a transaction
	SaveBatch(ctx context.Context, chunks []*domain.Chunk) error

	// GetByDocument retrieves all chunks for a document in position order
	GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error)

	// GetByUser retrieves all of a user's chunks grouped by document,
	// documents in creation order and chunks in position order. This is
	// the candidate set for similarity search.
	GetByUser(ctx context.Context, userID string) ([]*domain.DocumentWithChunks, error)

	// DeleteByDocument deletes all chunks for a document
	DeleteByDocument(ctx context.Context, documentID string) error
}
