package mocks

import (
	"context"
	"sync"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// MockExtractor is a mock implementation of Extractor for testing
type MockExtractor struct {
	types    []string
	priority int
	text     string
	failNext bool
}

// NewMockExtractor creates a MockExtractor handling the given MIME types
func NewMockExtractor(types ...string) *MockExtractor {
	if len(types) == 0 {
		types = []string{"text/plain"}
	}
	return &MockExtractor{types: types, text: "extracted text"}
}

func (m *MockExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	if m.failNext {
		m.failNext = false
		return "", domain.ErrParseFailure
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(content), nil
}

func (m *MockExtractor) SupportedTypes() []string {
	return m.types
}

func (m *MockExtractor) Priority() int {
	return m.priority
}

// Helper methods for testing

// SetText overrides the extraction result. An empty text makes Extract
// echo the raw content back.
func (m *MockExtractor) SetText(text string) {
	m.text = text
}

func (m *MockExtractor) SetPriority(p int) {
	m.priority = p
}

func (m *MockExtractor) SetFailNext(fail bool) {
	m.failNext = fail
}

// MockExtractorRegistry is a mock implementation of ExtractorRegistry for testing.
// Exact MIME matches only; wildcard behavior belongs to the real registry.
type MockExtractorRegistry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor
}

// NewMockExtractorRegistry creates a new MockExtractorRegistry
func NewMockExtractorRegistry() *MockExtractorRegistry {
	return &MockExtractorRegistry{
		extractors: make(map[string]driven.Extractor),
	}
}

func (m *MockExtractorRegistry) Register(e driven.Extractor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range e.SupportedTypes() {
		m.extractors[t] = e
	}
}

func (m *MockExtractorRegistry) Get(mimeType string) driven.Extractor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.extractors[mimeType]
}

func (m *MockExtractorRegistry) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.extractors))
	for t := range m.extractors {
		types = append(types, t)
	}
	return types
}
