package services

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface.
// Every operation is scoped to the calling user: another user's document
// is indistinguishable from a missing one.
type documentService struct {
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
) driving.DocumentService {
	return &documentService{
		documentStore: documentStore,
		chunkStore:    chunkStore,
	}
}

// Get retrieves a document owned by the user
func (s *documentService) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	if userID == "" || id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.documentStore.Get(ctx, userID, id)
}

// GetWithChunks retrieves a document and its chunks in position order
func (s *documentService) GetWithChunks(ctx context.Context, userID, id string) (*domain.DocumentWithChunks, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunkStore.GetByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentWithChunks{
		Document: doc,
		Chunks:   chunks,
	}, nil
}

// List retrieves the user's documents in creation order
func (s *documentService) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.documentStore.GetByUser(ctx, userID, limit, offset)
}

// Delete removes a document and its chunks
func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	// Ownership check first: cross-user deletes fail as not found
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.chunkStore.DeleteByDocument(ctx, doc.ID); err != nil {
		return err
	}
	return s.documentStore.Delete(ctx, userID, doc.ID)
}
