package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service is the read side of the audit trail.
type Service struct {
	store Store
	cache *Cache
}

// NewService returns an audit read service. The cache may be nil.
func NewService(store Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ListByAccount returns the audit trail for one account, oldest first.
func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Record, error) {
	key, err := s.cache.BuildKey(ctx, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("auditlog: cache key: %w", err)
	}
	var records []Record
	err = s.cache.FetchJSON(ctx, key, &records, func(ctx context.Context) (any, error) {
		return s.store.ListByAccount(ctx, accountID)
	})
	if err != nil {
		return nil, fmt.Errorf("auditlog: list for account %s: %w", accountID, err)
	}
	return records, nil
}
