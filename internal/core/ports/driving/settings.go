package driving

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// UpdateCredentialRequest sets the embedding provider credential
type UpdateCredentialRequest struct {
	Provider domain.ProviderType `json:"provider"`
	Model    string              `json:"model"`
	BaseURL  string              `json:"base_url,omitempty"`
	APIKey   string              `json:"api_key,omitempty"`
}

// SettingsService manages the embedding credential (admin only)
type SettingsService interface {
	// GetCredential returns the stored credential without the secret
	GetCredential(ctx context.Context, actor *domain.AuthContext) (*domain.AICredentialSummary, error)

	// UpdateCredential validates the credential against the provider,
	// stores it, and swaps the live embedding service
	UpdateCredential(ctx context.Context, actor *domain.AuthContext, req *UpdateCredentialRequest) (*domain.AICredentialSummary, error)

	// DeleteCredential removes the credential and disables embedding
	DeleteCredential(ctx context.Context, actor *domain.AuthContext) error
}
