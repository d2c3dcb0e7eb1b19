package outbox

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryOutbox is a mutex-protected in-memory outbox.
type MemoryOutbox struct {
	mu    sync.Mutex
	facts []Fact
}

// NewMemoryOutbox returns an empty in-memory outbox.
func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{}
}

func (o *MemoryOutbox) Append(ctx context.Context, fact Fact) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.facts = append(o.facts, fact)
	return nil
}

func (o *MemoryOutbox) AppendMany(ctx context.Context, facts []Fact) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.facts = append(o.facts, facts...)
	return nil
}

func (o *MemoryOutbox) DrainAll(ctx context.Context) ([]Fact, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	snapshot := make([]Fact, len(o.facts))
	copy(snapshot, o.facts)
	return snapshot, nil
}

func (o *MemoryOutbox) Remove(ctx context.Context, fact Fact) error {
	return o.RemoveMany(ctx, []Fact{fact})
}

func (o *MemoryOutbox) RemoveMany(ctx context.Context, facts []Fact) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	drop := make(map[uuid.UUID]struct{}, len(facts))
	for _, f := range facts {
		drop[f.ID] = struct{}{}
	}
	kept := o.facts[:0]
	for _, f := range o.facts {
		if _, ok := drop[f.ID]; !ok {
			kept = append(kept, f)
		}
	}
	o.facts = kept
	return nil
}
