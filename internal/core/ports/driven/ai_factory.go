package driven

import (
	"github.com/docship-labs/docship-core/internal/core/domain"
)

// AIFactory constructs embedding services from a stored credential
type AIFactory interface {
	// CreateEmbedding creates an embedding service for the credential.
	// Fails with domain.ErrInvalidProvider for unknown providers.
	CreateEmbedding(cred *domain.AICredential) (EmbeddingService, error)
}
