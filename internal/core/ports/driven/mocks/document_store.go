package mocks

import (
	"context"
	"sync"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// MockDocumentStore is a mock implementation of DocumentStore for testing
type MockDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document // key: userID:id
	byUser    map[string][]*domain.Document
	chunks    map[string][]*domain.Chunk // key: documentID
	failNext  error
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		documents: make(map[string]*domain.Document),
		byUser:    make(map[string][]*domain.Document),
		chunks:    make(map[string][]*domain.Chunk),
	}
}

func (m *MockDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailNext(); err != nil {
		return err
	}
	m.save(doc)
	return nil
}

func (m *MockDocumentStore) SaveWithChunks(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailNext(); err != nil {
		return err
	}
	m.save(doc)
	m.chunks[doc.ID] = append([]*domain.Chunk{}, chunks...)
	return nil
}

func (m *MockDocumentStore) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[userID+":"+id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *MockDocumentStore) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.byUser[userID]
	if offset >= len(docs) {
		return []*domain.Document{}, nil
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end], nil
}

func (m *MockDocumentStore) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.documents[userID+":"+id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.documents, userID+":"+id)
	delete(m.chunks, id)

	docs := m.byUser[userID]
	for i, d := range docs {
		if d.ID == id {
			m.byUser[userID] = append(docs[:i], docs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockDocumentStore) CountByUser(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser[userID]), nil
}

func (m *MockDocumentStore) save(doc *domain.Document) {
	key := doc.UserID + ":" + doc.ID
	_, existed := m.documents[key]
	m.documents[key] = doc
	if existed {
		for i, d := range m.byUser[doc.UserID] {
			if d.ID == doc.ID {
				m.byUser[doc.UserID][i] = doc
				break
			}
		}
		return
	}
	m.byUser[doc.UserID] = append(m.byUser[doc.UserID], doc)
}

func (m *MockDocumentStore) takeFailNext() error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}

// Helper methods for testing

func (m *MockDocumentStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// SavedChunks returns the chunks persisted alongside a document
func (m *MockDocumentStore) SavedChunks(documentID string) []*domain.Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chunks[documentID]
}

func (m *MockDocumentStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = make(map[string]*domain.Document)
	m.byUser = make(map[string][]*domain.Document)
	m.chunks = make(map[string][]*domain.Chunk)
	m.failNext = nil
}
