package mocks

import (
	"context"
	"sync"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// MockChunkStore is a mock implementation of ChunkStore for testing
type MockChunkStore struct {
	mu       sync.RWMutex
	byDoc    map[string][]*domain.Chunk
	docs     []*domain.Document // insertion order stands in for creation order
	failNext error
}

// NewMockChunkStore creates a new MockChunkStore
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{
		byDoc: make(map[string][]*domain.Chunk),
	}
}

func (m *MockChunkStore) SaveBatch(ctx context.Context, chunks []*domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	for _, c := range chunks {
		m.byDoc[c.DocumentID] = append(m.byDoc[c.DocumentID], c)
	}
	return nil
}

func (m *MockChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byDoc[documentID], nil
}

func (m *MockChunkStore) GetByUser(ctx context.Context, userID string) ([]*domain.DocumentWithChunks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DocumentWithChunks
	for _, doc := range m.docs {
		if doc.UserID != userID {
			continue
		}
		result = append(result, &domain.DocumentWithChunks{
			Document: doc,
			Chunks:   m.byDoc[doc.ID],
		})
	}
	return result, nil
}

func (m *MockChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byDoc, documentID)
	for i, d := range m.docs {
		if d.ID == documentID {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			break
		}
	}
	return nil
}

// Helper methods for testing

// AddDocument registers document metadata so GetByUser can group chunks
func (m *MockChunkStore) AddDocument(doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, doc)
}

func (m *MockChunkStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockChunkStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDoc = make(map[string][]*domain.Chunk)
	m.docs = nil
	m.failNext = nil
}
