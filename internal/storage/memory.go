package storage

import (
	"context"
	"sync"

	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/models"
)

// MemoryStore keeps transactions in insertion order. It backs the offline parse
// command and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.NormalizedTransaction
	ids     map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]struct{})}
}

func (s *MemoryStore) Insert(ctx context.Context, tx models.NormalizedTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[tx.ID]; exists {
		return apperrors.ErrConflict.WithDetail("id", tx.ID)
	}
	s.ids[tx.ID] = struct{}{}
	s.records = append(s.records, tx)
	return nil
}

// All returns a copy of the stored records, oldest first.
func (s *MemoryStore) All() []models.NormalizedTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.NormalizedTransaction, len(s.records))
	copy(out, s.records)
	return out
}

// LatestCategory returns the category of the newest record whose merchant equals
// merchant exactly and whose category is set.
func (s *MemoryStore) LatestCategory(merchant string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.Merchant == merchant && r.Category != "" {
			return r.Category, true
		}
	}
	return "", false
}
