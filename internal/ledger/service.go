// Package ledger owns the balance-mutation invariants: amount
// validation, sufficient-funds checks, the linked-account rule for
// checking accounts, and the emission of exactly one fact per
// successful mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/bank"
	"github.com/banksim-dev/banksim/internal/holders"
	"github.com/banksim-dev/banksim/internal/outbox"
)

// Service applies the ledger operations against the account and holder
// stores and enqueues the facts describing each successful mutation.
type Service struct {
	accounts accounts.Repository
	holders  holders.Repository
	outbox   outbox.Outbox
	locks    *lockTable
	logger   *slog.Logger
}

// NewService constructs the ledger.
func NewService(accountRepo accounts.Repository, holderRepo holders.Repository, ob outbox.Outbox, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		accounts: accountRepo,
		holders:  holderRepo,
		outbox:   ob,
		locks:    newLockTable(),
		logger:   logger,
	}
}

// AddAccountParams carries the input for opening an account.
type AddAccountParams struct {
	HolderName      string
	HolderPublicID  uuid.UUID
	Kind            accounts.Kind
	LinkedAccountID *uuid.UUID
}

// AddAccount resolves or creates the holder, validates the
// linked-account rule, persists the new account with a zero balance
// and emits the creation fact (plus a linked fact for checking
// accounts).
func (s *Service) AddAccount(ctx context.Context, p AddAccountParams) (*accounts.Account, error) {
	if strings.TrimSpace(p.HolderName) == "" || p.HolderPublicID == uuid.Nil {
		return nil, fmt.Errorf("%w: holder name and public identifier are required", bank.ErrValidation)
	}
	if !p.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", bank.ErrValidation, p.Kind)
	}

	switch p.Kind {
	case accounts.KindSavings:
		if p.LinkedAccountID != nil {
			return nil, fmt.Errorf("%w: savings accounts cannot carry a linked account", bank.ErrValidation)
		}
	case accounts.KindChecking:
		if p.LinkedAccountID == nil {
			return nil, fmt.Errorf("%w: checking accounts require a linked account", bank.ErrValidation)
		}
		if _, err := s.accounts.Get(ctx, *p.LinkedAccountID); err != nil {
			if errors.Is(err, bank.ErrNotFound) {
				return nil, fmt.Errorf("%w: linked account %s does not exist", bank.ErrValidation, p.LinkedAccountID)
			}
			return nil, fmt.Errorf("resolve linked account: %w", err)
		}
	}

	holder, err := s.resolveHolder(ctx, p.HolderName, p.HolderPublicID)
	if err != nil {
		return nil, err
	}

	account := accounts.Account{
		ID:              uuid.New(),
		HolderID:        holder.ID,
		Kind:            p.Kind,
		LinkedAccountID: p.LinkedAccountID,
		Balance:         decimal.Zero,
	}
	if err := s.accounts.Add(ctx, account); err != nil {
		return nil, fmt.Errorf("persist account: %w", err)
	}

	snapshot := outbox.SnapshotOf(account)
	snapshot.HolderPublicID = holder.PublicID

	created, err := outbox.AccountFact(outbox.KindAccountCreated, snapshot)
	if err != nil {
		return nil, err
	}
	facts := []outbox.Fact{created}
	if p.Kind == accounts.KindChecking {
		linked, err := outbox.AccountFact(outbox.KindAccountLinked, snapshot)
		if err != nil {
			return nil, err
		}
		facts = append(facts, linked)
	}
	if err := s.outbox.AppendMany(ctx, facts); err != nil {
		return nil, fmt.Errorf("enqueue account facts: %w", err)
	}

	s.logger.Info("account opened",
		slog.String("account_id", account.ID.String()),
		slog.String("kind", string(account.Kind)),
		slog.String("holder_id", holder.ID.String()))
	return &account, nil
}

// Deposit increases the balance by amount and emits the deposit fact.
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*accounts.Account, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", bank.ErrValidation)
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("deposit into %s: %w", accountID, err)
	}
	account.Balance = account.Balance.Add(amount)
	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("persist deposit: %w", err)
	}

	if err := s.emitMovement(ctx, outbox.KindMoneyDeposited, *account, amount); err != nil {
		return nil, err
	}
	return account, nil
}

// Withdraw decreases the balance by amount, guarding against overdraft,
// and emits the withdrawal fact.
func (s *Service) Withdraw(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*accounts.Account, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", bank.ErrValidation)
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("withdraw from %s: %w", accountID, err)
	}
	if account.Balance.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: account %s cannot cover %s", bank.ErrInsufficientFunds, accountID, amount)
	}
	account.Balance = account.Balance.Sub(amount)
	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("persist withdrawal: %w", err)
	}

	if err := s.emitMovement(ctx, outbox.KindMoneyWithdrawn, *account, amount); err != nil {
		return nil, err
	}
	return account, nil
}

// Transfer debits the source, credits the destination and emits a
// single fact carrying both post-transfer snapshots. The destination
// account is returned.
func (s *Service) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) (*accounts.Account, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", bank.ErrValidation)
	}
	if fromID == toID {
		return nil, fmt.Errorf("%w: cannot transfer within the same account", bank.ErrValidation)
	}

	unlock := s.locks.lockPair(fromID, toID)
	defer unlock()

	from, err := s.accounts.Get(ctx, fromID)
	if err != nil {
		return nil, fmt.Errorf("transfer source %s: %w", fromID, err)
	}
	to, err := s.accounts.Get(ctx, toID)
	if err != nil {
		return nil, fmt.Errorf("transfer destination %s: %w", toID, err)
	}
	if from.Balance.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: account %s cannot cover %s", bank.ErrInsufficientFunds, fromID, amount)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	if err := s.accounts.Update(ctx, *from); err != nil {
		return nil, fmt.Errorf("persist transfer debit: %w", err)
	}
	if err := s.accounts.Update(ctx, *to); err != nil {
		return nil, fmt.Errorf("persist transfer credit: %w", err)
	}

	fact, err := outbox.TransferFact(outbox.SnapshotOf(*from), outbox.SnapshotOf(*to), amount)
	if err != nil {
		return nil, err
	}
	if err := s.outbox.Append(ctx, fact); err != nil {
		return nil, fmt.Errorf("enqueue transfer fact: %w", err)
	}

	s.logger.Info("transfer applied",
		slog.String("from", fromID.String()),
		slog.String("to", toID.String()),
		slog.String("amount", amount.String()))
	return to, nil
}

func (s *Service) resolveHolder(ctx context.Context, name string, publicID uuid.UUID) (*holders.Holder, error) {
	holder, err := s.holders.GetByPublicID(ctx, publicID)
	if err == nil {
		return holder, nil
	}
	if !errors.Is(err, bank.ErrNotFound) {
		return nil, fmt.Errorf("resolve holder: %w", err)
	}

	created := holders.Holder{ID: uuid.New(), FullName: name, PublicID: publicID}
	if err := s.holders.Add(ctx, created); err != nil {
		return nil, fmt.Errorf("create holder: %w", err)
	}
	s.logger.Info("holder created",
		slog.String("holder_id", created.ID.String()),
		slog.String("public_id", publicID.String()))
	return &created, nil
}

func (s *Service) emitMovement(ctx context.Context, kind outbox.Kind, account accounts.Account, amount decimal.Decimal) error {
	fact, err := outbox.MovementFact(kind, outbox.SnapshotOf(account), amount)
	if err != nil {
		return err
	}
	if err := s.outbox.Append(ctx, fact); err != nil {
		return fmt.Errorf("enqueue %s fact: %w", kind, err)
	}
	return nil
}
