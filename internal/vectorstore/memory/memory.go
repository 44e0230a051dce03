package memory

import (
	"sync"

	"factrag/internal/domain"
	"factrag/internal/vectorstore"
)

var _ vectorstore.Store = (*Storage)(nil)

// Storage is an append-only in-memory vector store.
// Searches are exhaustive; see the retriever package.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   []domain.Record
}

// NewStorage returns an empty store with no dimension set.
func NewStorage() *Storage { return &Storage{} }

// Append copies embedding into a new record.
func (s *Storage) Append(text string, embedding []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) > 0 && len(embedding) != s.dimension {
		return &domain.DimensionMismatchError{Expected: s.dimension, Actual: len(embedding)}
	}
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	if len(s.records) == 0 {
		s.dimension = len(vec)
	}
	s.records = append(s.records, domain.Record{Text: text, Embedding: vec})
	return nil
}

// All returns a capped view of the records; appending to it never touches
// the store's backing array.
func (s *Storage) All() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[:len(s.records):len(s.records)]
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Storage) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}
