package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/banksim-dev/banksim/internal/platform/db"
)

// PGOutbox is a postgres-backed outbox over the outbox_facts table.
type PGOutbox struct {
	pool *pgxpool.Pool
}

// NewPGOutbox returns a postgres-backed outbox.
func NewPGOutbox(pool *pgxpool.Pool) *PGOutbox {
	return &PGOutbox{pool: pool}
}

func (o *PGOutbox) Append(ctx context.Context, fact Fact) error {
	_, err := o.pool.Exec(ctx,
		`INSERT INTO outbox_facts (id, kind, payload, created_at) VALUES ($1, $2, $3, $4)`,
		fact.ID, string(fact.Kind), fact.Payload, fact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("outbox: insert fact: %w", err)
	}
	return nil
}

// AppendMany inserts all facts of one producing call in a single
// transaction so they become visible together and in order.
func (o *PGOutbox) AppendMany(ctx context.Context, facts []Fact) error {
	if len(facts) == 0 {
		return nil
	}
	err := db.WithTx(ctx, o.pool, func(tx pgx.Tx) error {
		for _, fact := range facts {
			_, err := tx.Exec(ctx,
				`INSERT INTO outbox_facts (id, kind, payload, created_at) VALUES ($1, $2, $3, $4)`,
				fact.ID, string(fact.Kind), fact.Payload, fact.CreatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("outbox: insert facts: %w", err)
	}
	return nil
}

func (o *PGOutbox) DrainAll(ctx context.Context) ([]Fact, error) {
	rows, err := o.pool.Query(ctx,
		`SELECT id, kind, payload, created_at FROM outbox_facts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("outbox: select pending: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var (
			f    Fact
			kind string
		)
		if err := rows.Scan(&f.ID, &kind, &f.Payload, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("outbox: scan fact: %w", err)
		}
		f.Kind = Kind(kind)
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (o *PGOutbox) Remove(ctx context.Context, fact Fact) error {
	return o.RemoveMany(ctx, []Fact{fact})
}

func (o *PGOutbox) RemoveMany(ctx context.Context, facts []Fact) error {
	if len(facts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(facts))
	for _, f := range facts {
		ids = append(ids, f.ID)
	}
	_, err := o.pool.Exec(ctx, `DELETE FROM outbox_facts WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("outbox: delete facts: %w", err)
	}
	return nil
}
