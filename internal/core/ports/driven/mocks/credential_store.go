package mocks

import (
	"context"
	"sync"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// MockCredentialStore is a mock implementation of CredentialStore for testing
type MockCredentialStore struct {
	mu   sync.RWMutex
	cred *domain.AICredential
}

// NewMockCredentialStore creates a new MockCredentialStore
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{}
}

func (m *MockCredentialStore) Save(ctx context.Context, cred *domain.AICredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *cred
	m.cred = &copied
	return nil
}

func (m *MockCredentialStore) Get(ctx context.Context) (*domain.AICredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return nil, domain.ErrNotFound
	}
	redacted := *m.cred
	redacted.APIKey = ""
	return &redacted, nil
}

func (m *MockCredentialStore) GetWithSecret(ctx context.Context) (*domain.AICredential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return nil, domain.ErrNotFound
	}
	copied := *m.cred
	return &copied, nil
}

func (m *MockCredentialStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return domain.ErrNotFound
	}
	m.cred = nil
	return nil
}

// Helper methods for testing

func (m *MockCredentialStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
}
