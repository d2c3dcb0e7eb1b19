package accounts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banksim-dev/banksim/internal/bank"
)

// MemoryRepository is a mutex-protected in-memory account store. It
// backs the simulator and the test suites.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
}

// NewMemoryRepository returns an empty in-memory account store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[uuid.UUID]Account)}
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, bank.ErrNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Add(ctx context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.accounts[account.ID]
	if !ok {
		return bank.ErrNotFound
	}
	account.CreatedAt = existing.CreatedAt
	r.accounts[account.ID] = account
	return nil
}

func (r *MemoryRepository) ListByHolder(ctx context.Context, holderID uuid.UUID) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Account
	for _, a := range r.accounts {
		if a.HolderID == holderID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
