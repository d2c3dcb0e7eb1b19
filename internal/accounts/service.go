package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/banksim-dev/banksim/internal/holders"
)

// Service exposes the read side of the account directory.
type Service struct {
	repo    Repository
	holders holders.Repository
}

// NewService returns an account lookup service.
func NewService(repo Repository, holderRepo holders.Repository) *Service {
	return &Service{repo: repo, holders: holderRepo}
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	return account, nil
}

// ListByHolderPublicID resolves the holder from the public identifier
// and returns all accounts they own.
func (s *Service) ListByHolderPublicID(ctx context.Context, publicID uuid.UUID) ([]Account, error) {
	holder, err := s.holders.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("resolve holder %s: %w", publicID, err)
	}
	list, err := s.repo.ListByHolder(ctx, holder.ID)
	if err != nil {
		return nil, fmt.Errorf("list accounts for holder %s: %w", holder.ID, err)
	}
	return list, nil
}
