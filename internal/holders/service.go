package holders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service exposes the read side of the holder directory.
type Service struct {
	repo Repository
}

// NewService returns a holder lookup service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByPublicID resolves a holder from the externally supplied public
// identifier. This is the login lookup.
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Holder, error) {
	holder, err := s.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("get holder %s: %w", publicID, err)
	}
	return holder, nil
}
