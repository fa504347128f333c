package storage

import (
	"context"
	"sync"

	"github.com/pastecn/pastecn/internal/model"
)

// Mock implements the Storage interface for testing. It stores documents
// in memory and can be configured to return errors.
type Mock struct {
	mu   sync.RWMutex
	docs map[string]*model.RegistryDocument

	// Error injection for testing error handling
	CreateErr error
	ReadErr   error
	ExistsErr error

	// CreateCalls counts CreateSnippet attempts, including failed ones.
	CreateCalls int
}

// NewMock creates a new mock storage instance.
func NewMock() *Mock {
	return &Mock{docs: make(map[string]*model.RegistryDocument)}
}

// CreateSnippet stores a document in memory.
func (m *Mock) CreateSnippet(ctx context.Context, id string, doc *model.RegistryDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++

	if m.CreateErr != nil {
		return m.CreateErr
	}

	if _, exists := m.docs[id]; exists {
		return model.ErrSnippetExists
	}

	stored := *doc
	m.docs[id] = &stored
	return nil
}

// ReadDocument retrieves a document from memory.
func (m *Mock) ReadDocument(ctx context.Context, id string) (*model.RegistryDocument, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, exists := m.docs[id]
	if !exists {
		return nil, model.ErrSnippetNotFound
	}

	result := *doc
	return &result, nil
}

// SnippetExists checks if a document exists in memory.
func (m *Mock) SnippetExists(ctx context.Context, id string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.docs[id]
	return exists, nil
}

// Close is a no-op for mock storage.
func (m *Mock) Close() error {
	return nil
}

// Put seeds a document directly, bypassing create semantics.
// Useful for test setup.
func (m *Mock) Put(id string, doc *model.RegistryDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *doc
	m.docs[id] = &stored
}

// SnippetCount returns the number of stored documents.
// Useful for assertions in tests.
func (m *Mock) SnippetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Reset clears all data and error injection from the mock.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]*model.RegistryDocument)
	m.CreateErr = nil
	m.ReadErr = nil
	m.ExistsErr = nil
	m.CreateCalls = 0
}
