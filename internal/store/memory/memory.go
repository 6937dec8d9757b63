// Package memory is the in-process store backend used by default and
// in tests.
package memory

import (
	"context"
	"sync"

	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	records map[string]*models.SearchRecord
}

func New() *Store {
	return &Store{records: make(map[string]*models.SearchRecord)}
}

// Upsert stores a deep copy so later mutations by the search goroutine
// never leak into persisted state.
func (s *Store) Upsert(ctx context.Context, record *models.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record.Clone()
	return nil
}

// Get returns a deep copy of the latest persisted snapshot.
func (s *Store) Get(ctx context.Context, id string) (*models.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return record.Clone(), nil
}

func (s *Store) Close() error {
	return nil
}
