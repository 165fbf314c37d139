package mocks

import (
	"sync"
	"time"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/google/uuid"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Hashing is a reversible prefix and tokens are opaque lookups, which is
// enough for service tests without pulling in bcrypt or JWT.
type MockAuthAdapter struct {
	mu     sync.RWMutex
	tokens map[string]*domain.TokenClaims
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{
		tokens: make(map[string]*domain.TokenClaims),
	}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := "token-" + uuid.NewString()
	m.tokens[token] = claims
	return token, nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	claims, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if claims.ExpiresAt > 0 && time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}

// Helper methods for testing

func (m *MockAuthAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = make(map[string]*domain.TokenClaims)
}
