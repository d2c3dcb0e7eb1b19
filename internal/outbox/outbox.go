package outbox

import "context"

// Outbox is the holding area for facts awaiting materialization.
// Append must be safe under concurrent writers. DrainAll returns a
// non-destructive snapshot of all pending facts in insertion order;
// facts appended after the snapshot are picked up on a later drain.
type Outbox interface {
	Append(ctx context.Context, fact Fact) error
	AppendMany(ctx context.Context, facts []Fact) error
	DrainAll(ctx context.Context) ([]Fact, error)
	Remove(ctx context.Context, fact Fact) error
	RemoveMany(ctx context.Context, facts []Fact) error
}
