// Package archive keeps finished run reports in a local store, keyed by
// run ID. The pipeline itself stays stateless across invocations; only the
// assembled report of each run is written here.
package archive

import (
	"fmt"
	"sync"

	"orderkpi/internal/report"
)

// Store abstracts the archive backend.
type Store interface {
	Put(runID string, rep report.Report) error
	Get(runID string) (report.Report, bool)
	Range(fn func(runID string, rep report.Report) error) error
}

// InMemoryStore is a simple thread-safe map store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]report.Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]report.Report)}
}

func (s *InMemoryStore) Put(runID string, rep report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = rep
	return nil
}

func (s *InMemoryStore) Get(runID string) (report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.data[runID]
	return rep, ok
}

func (s *InMemoryStore) Range(fn func(runID string, rep report.Report) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.data {
		if err := fn(k, v); err != nil {
			return fmt.Errorf("range callback failed: %w", err)
		}
	}
	return nil
}
