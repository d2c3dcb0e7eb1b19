package auditlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is a postgres-backed audit store over the audit_logs table.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a postgres-backed audit store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Append(ctx context.Context, record Record) error {
	meta, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("auditlog: marshal metadata: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, event_type, account_id, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, string(record.EventType), record.AccountID, meta, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert record: %w", err)
	}
	return nil
}

func (s *PGStore) AppendMany(ctx context.Context, records []Record) error {
	for _, record := range records {
		if err := s.Append(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_type, account_id, metadata, created_at
		 FROM audit_logs WHERE account_id = $1 ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("auditlog: select records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r         Record
			eventType string
			meta      []byte
		)
		if err := rows.Scan(&r.ID, &eventType, &r.AccountID, &meta, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("auditlog: scan record: %w", err)
		}
		r.EventType = EventType(eventType)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &r.Metadata); err != nil {
				return nil, fmt.Errorf("auditlog: unmarshal metadata: %w", err)
			}
		}
		if r.Metadata == nil {
			r.Metadata = map[string]string{}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
