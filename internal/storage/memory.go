package storage

import (
	"sync"

	"github.com/portfolio-assistant/backend/internal/knowledge"
)

// MemoryStore keeps the corpus in process memory. It satisfies the same
// contract as the SQLite store but nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []knowledge.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) ReplaceAll(docs []knowledge.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make([]knowledge.Document, len(docs))
	copy(m.docs, docs)
	return nil
}

func (m *MemoryStore) LoadAll() ([]knowledge.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]knowledge.Document, len(m.docs))
	copy(docs, m.docs)
	return docs, nil
}

func (m *MemoryStore) Close() error { return nil }
