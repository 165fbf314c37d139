package ai

import (
	"fmt"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Ensure Factory implements AIFactory
var _ driven.AIFactory = (*Factory)(nil)

// Factory creates embedding services from stored credentials
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbedding creates an embedding service for the credential
func (f *Factory) CreateEmbedding(cred *domain.AICredential) (driven.EmbeddingService, error) {
	if cred == nil {
		return nil, nil
	}

	switch cred.Provider {
	case domain.ProviderOpenAI:
		return NewOpenAIEmbedding(cred.APIKey, cred.Model, cred.BaseURL)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, cred.Provider)
	}
}
