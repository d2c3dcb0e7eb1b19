package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/banksim-dev/banksim/internal/bank"
)

// Repository is the account store contract consumed by the ledger and
// the read-side queries.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Account, error)
	Add(ctx context.Context, account Account) error
	Update(ctx context.Context, account Account) error
	ListByHolder(ctx context.Context, holderID uuid.UUID) ([]Account, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a postgres-backed account store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = `id, holder_id, kind, linked_account_id, balance::text, created_at`

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bank.ErrNotFound
		}
		return nil, fmt.Errorf("accounts: get: %w", err)
	}
	return account, nil
}

func (r *repository) Add(ctx context.Context, account Account) error {
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, holder_id, kind, linked_account_id, balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.HolderID, string(account.Kind), account.LinkedAccountID,
		account.Balance.String(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("accounts: insert: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, account Account) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET holder_id = $2, linked_account_id = $3, balance = $4 WHERE id = $1`,
		account.ID, account.HolderID, account.LinkedAccountID, account.Balance.String(),
	)
	if err != nil {
		return fmt.Errorf("accounts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return bank.ErrNotFound
	}
	return nil
}

func (r *repository) ListByHolder(ctx context.Context, holderID uuid.UUID) ([]Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE holder_id = $1 ORDER BY created_at`, holderID)
	if err != nil {
		return nil, fmt.Errorf("accounts: list: %w", err)
	}
	defer rows.Close()

	var result []Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("accounts: scan: %w", err)
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		a       Account
		kind    string
		balance string
	)
	if err := row.Scan(&a.ID, &a.HolderID, &kind, &a.LinkedAccountID, &balance, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Kind = Kind(kind)
	value, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	a.Balance = value
	return &a, nil
}
