package holders

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banksim-dev/banksim/internal/bank"
)

// MemoryRepository is a mutex-protected in-memory holder directory.
// It backs the simulator and the test suites.
type MemoryRepository struct {
	mu      sync.RWMutex
	holders map[uuid.UUID]Holder
}

// NewMemoryRepository returns an empty in-memory holder directory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{holders: make(map[uuid.UUID]Holder)}
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*Holder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.holders[id]
	if !ok {
		return nil, bank.ErrNotFound
	}
	return &h, nil
}

func (r *MemoryRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Holder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.holders {
		if h.PublicID == publicID {
			copy := h
			return &copy, nil
		}
	}
	return nil, bank.ErrNotFound
}

func (r *MemoryRepository) Add(ctx context.Context, holder Holder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if holder.CreatedAt.IsZero() {
		holder.CreatedAt = time.Now().UTC()
	}
	r.holders[holder.ID] = holder
	return nil
}
