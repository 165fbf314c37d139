package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
	"github.com/docship-labs/docship-core/internal/runtime"
)

// Ensure settingsService implements SettingsService
var _ driving.SettingsService = (*settingsService)(nil)

// settingsService manages the embedding credential. The secret only
// flows through here when building the embedding adapter; reads return
// the redacted summary.
type settingsService struct {
	credStore driven.CredentialStore
	factory   driven.AIFactory
	services  *runtime.Services
	logger    *slog.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	credStore driven.CredentialStore,
	factory driven.AIFactory,
	services *runtime.Services,
	logger *slog.Logger,
) driving.SettingsService {
	if logger == nil {
		logger = slog.Default()
	}

	return &settingsService{
		credStore: credStore,
		factory:   factory,
		services:  services,
		logger:    logger,
	}
}

// GetCredential returns the stored credential without the secret
func (s *settingsService) GetCredential(ctx context.Context, actor *domain.AuthContext) (*domain.AICredentialSummary, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	cred, err := s.credStore.Get(ctx)
	if err != nil {
		return nil, err
	}

	summary := cred.ToSummary()
	// A stored credential always carries a key; the read projection
	// just never returns it
	summary.HasKey = true
	return summary, nil
}

// UpdateCredential validates the credential against the provider, stores
// it, and swaps the live embedding service
func (s *settingsService) UpdateCredential(ctx context.Context, actor *domain.AuthContext, req *driving.UpdateCredentialRequest) (*domain.AICredentialSummary, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if req.Provider == "" || req.Model == "" {
		return nil, domain.ErrInvalidInput
	}

	apiKey := req.APIKey
	if apiKey == "" {
		// Model or URL change without resending the key reuses the
		// stored secret
		existing, err := s.credStore.GetWithSecret(ctx)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		apiKey = existing.APIKey
	}

	now := time.Now()
	cred := &domain.AICredential{
		OwnerID:   actor.UserID,
		Provider:  req.Provider,
		Model:     req.Model,
		BaseURL:   req.BaseURL,
		APIKey:    apiKey,
		CreatedAt: now,
		UpdatedAt: now,
	}

	svc, err := s.factory.CreateEmbedding(cred)
	if err != nil {
		return nil, err
	}

	// Health check before committing; a bad credential never replaces
	// a working one
	if err := s.services.ValidateAndSetEmbedding(ctx, svc); err != nil {
		s.logger.Warn("embedding credential rejected", "provider", cred.Provider, "error", err)
		return nil, domain.ErrServiceUnavailable
	}

	if err := s.credStore.Save(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.Info("embedding credential updated",
		"provider", cred.Provider,
		"model", cred.Model,
	)

	return cred.ToSummary(), nil
}

// DeleteCredential removes the credential and disables embedding
func (s *settingsService) DeleteCredential(ctx context.Context, actor *domain.AuthContext) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.credStore.Delete(ctx); err != nil {
		return err
	}

	s.services.SetEmbeddingService(nil)
	return nil
}
