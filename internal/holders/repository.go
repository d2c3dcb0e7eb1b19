package holders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/banksim-dev/banksim/internal/bank"
)

// Repository is the holder directory contract consumed by the ledger
// and the read-side queries.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Holder, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Holder, error)
	Add(ctx context.Context, holder Holder) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a postgres-backed holder directory.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Holder, error) {
	return r.scanOne(ctx, `SELECT id, full_name, public_id, created_at FROM holders WHERE id = $1`, id)
}

func (r *repository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Holder, error) {
	return r.scanOne(ctx, `SELECT id, full_name, public_id, created_at FROM holders WHERE public_id = $1`, publicID)
}

func (r *repository) Add(ctx context.Context, holder Holder) error {
	createdAt := holder.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO holders (id, full_name, public_id, created_at) VALUES ($1, $2, $3, $4)`,
		holder.ID, holder.FullName, holder.PublicID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("holders: insert: %w", err)
	}
	return nil
}

func (r *repository) scanOne(ctx context.Context, query string, arg any) (*Holder, error) {
	var h Holder
	err := r.pool.QueryRow(ctx, query, arg).Scan(&h.ID, &h.FullName, &h.PublicID, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bank.ErrNotFound
		}
		return nil, fmt.Errorf("holders: query: %w", err)
	}
	return &h, nil
}
