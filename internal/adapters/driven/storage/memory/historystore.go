package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.FetchHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.FetchHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records []domain.FetchRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		records: make([]domain.FetchRecord, 0),
	}
}

// Record stores one attempt.
func (s *HistoryStore) Record(_ context.Context, rec domain.FetchRecord) error {
	if !rec.Outcome.IsValid() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List returns attempts newest first, optionally filtered by artifact name.
func (s *HistoryStore) List(_ context.Context, name string, limit int) ([]domain.FetchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.FetchRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		if name == "" || s.records[i].Name == name {
			result = append(result, s.records[i])
		}
	}
	// Insertion order breaks ties between equal start times.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Prune deletes attempts started before the cutoff.
func (s *HistoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	removed := 0
	for _, rec := range s.records {
		if rec.StartedAt.Before(before) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return removed, nil
}
