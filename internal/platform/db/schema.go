package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS holders (
		id         UUID PRIMARY KEY,
		full_name  TEXT NOT NULL,
		public_id  UUID NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id                UUID PRIMARY KEY,
		holder_id         UUID NOT NULL REFERENCES holders (id),
		kind              TEXT NOT NULL,
		linked_account_id UUID,
		balance           NUMERIC(19, 4) NOT NULL DEFAULT 0,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_facts (
		id         UUID PRIMARY KEY,
		kind       TEXT NOT NULL,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id         UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		account_id UUID NOT NULL,
		metadata   JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_holder ON accounts (holder_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_account ON audit_logs (account_id, created_at)`,
}

// Migrate applies the banksim schema. Statements are idempotent so the
// call is safe on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("platform/db: migrate: %w", err)
		}
	}
	return nil
}
