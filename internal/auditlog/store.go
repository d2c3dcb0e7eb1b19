package auditlog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store is the audit trail contract: append-only writes from the
// materializer, per-account reads for the query side.
type Store interface {
	Append(ctx context.Context, record Record) error
	AppendMany(ctx context.Context, records []Record) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Record, error)
}

// MemoryStore is a mutex-protected in-memory audit store.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns an empty in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryStore) AppendMany(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *MemoryStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Record
	for _, r := range s.records {
		if r.AccountID == accountID {
			result = append(result, r)
		}
	}
	return result, nil
}
