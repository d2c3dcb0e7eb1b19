package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/bank"
	"github.com/banksim-dev/banksim/internal/holders"
	"github.com/banksim-dev/banksim/internal/outbox"
)

type fixture struct {
	svc      *Service
	holders  *holders.MemoryRepository
	accounts *accounts.MemoryRepository
	outbox   *outbox.MemoryOutbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		holders:  holders.NewMemoryRepository(),
		accounts: accounts.NewMemoryRepository(),
		outbox:   outbox.NewMemoryOutbox(),
	}
	f.svc = NewService(f.accounts, f.holders, f.outbox, nil)
	return f
}

func (f *fixture) openSavings(t *testing.T, publicID uuid.UUID) *accounts.Account {
	t.Helper()
	account, err := f.svc.AddAccount(context.Background(), AddAccountParams{
		HolderName:     "Ada Brooks",
		HolderPublicID: publicID,
		Kind:           accounts.KindSavings,
	})
	require.NoError(t, err)
	return account
}

func (f *fixture) pendingFacts(t *testing.T) []outbox.Fact {
	t.Helper()
	facts, err := f.outbox.DrainAll(context.Background())
	require.NoError(t, err)
	return facts
}

func TestAddAccountCreatesHolderAndEmitsFact(t *testing.T) {
	f := newFixture(t)
	publicID := uuid.New()

	account := f.openSavings(t, publicID)
	require.True(t, account.Balance.IsZero())
	require.Nil(t, account.LinkedAccountID)

	holder, err := f.holders.GetByPublicID(context.Background(), publicID)
	require.NoError(t, err)
	require.Equal(t, holder.ID, account.HolderID)
	require.Equal(t, "Ada Brooks", holder.FullName)

	facts := f.pendingFacts(t)
	require.Len(t, facts, 1)
	require.Equal(t, outbox.KindAccountCreated, facts[0].Kind)

	env, err := outbox.Decode(facts[0].Payload)
	require.NoError(t, err)
	require.Equal(t, account.ID, env.Account.ID)
	require.Equal(t, publicID, env.Account.HolderPublicID)
}

func TestAddAccountReusesExistingHolder(t *testing.T) {
	f := newFixture(t)
	publicID := uuid.New()

	first := f.openSavings(t, publicID)
	second, err := f.svc.AddAccount(context.Background(), AddAccountParams{
		HolderName:      "Ada Brooks",
		HolderPublicID:  publicID,
		Kind:            accounts.KindChecking,
		LinkedAccountID: &first.ID,
	})
	require.NoError(t, err)
	require.Equal(t, first.HolderID, second.HolderID)
}

func TestAddAccountCheckingEmitsLinkedFact(t *testing.T) {
	f := newFixture(t)
	savings := f.openSavings(t, uuid.New())
	f.pendingFacts(t) // facts for the savings account are not under test

	checking, err := f.svc.AddAccount(context.Background(), AddAccountParams{
		HolderName:      "Ada Brooks",
		HolderPublicID:  uuid.New(),
		Kind:            accounts.KindChecking,
		LinkedAccountID: &savings.ID,
	})
	require.NoError(t, err)

	facts := f.pendingFacts(t)
	// DrainAll keeps earlier facts pending, so skip the savings ones.
	facts = facts[1:]
	require.Len(t, facts, 2)
	require.Equal(t, outbox.KindAccountCreated, facts[0].Kind)
	require.Equal(t, outbox.KindAccountLinked, facts[1].Kind)

	env, err := outbox.Decode(facts[1].Payload)
	require.NoError(t, err)
	require.Equal(t, checking.ID, env.Account.ID)
	require.NotNil(t, env.Account.LinkedAccountID)
	require.Equal(t, savings.ID, *env.Account.LinkedAccountID)
}

func TestAddAccountValidation(t *testing.T) {
	f := newFixture(t)
	savings := f.openSavings(t, uuid.New())
	missing := uuid.New()

	cases := []struct {
		name   string
		params AddAccountParams
	}{
		{"blank holder name", AddAccountParams{HolderName: "  ", HolderPublicID: uuid.New(), Kind: accounts.KindSavings}},
		{"nil public id", AddAccountParams{HolderName: "Ada", Kind: accounts.KindSavings}},
		{"unknown kind", AddAccountParams{HolderName: "Ada", HolderPublicID: uuid.New(), Kind: accounts.Kind("bond")}},
		{"savings with link", AddAccountParams{HolderName: "Ada", HolderPublicID: uuid.New(), Kind: accounts.KindSavings, LinkedAccountID: &savings.ID}},
		{"checking without link", AddAccountParams{HolderName: "Ada", HolderPublicID: uuid.New(), Kind: accounts.KindChecking}},
		{"checking with missing link", AddAccountParams{HolderName: "Ada", HolderPublicID: uuid.New(), Kind: accounts.KindChecking, LinkedAccountID: &missing}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddAccount(context.Background(), tc.params)
			require.ErrorIs(t, err, bank.ErrValidation)
		})
	}
}

func TestDepositUpdatesBalanceAndEmitsFact(t *testing.T) {
	f := newFixture(t)
	account := f.openSavings(t, uuid.New())
	f.pendingFacts(t)

	updated, err := f.svc.Deposit(context.Background(), account.ID, decimal.NewFromInt(150))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(150)))

	facts := f.pendingFacts(t)
	last := facts[len(facts)-1]
	require.Equal(t, outbox.KindMoneyDeposited, last.Kind)

	env, err := outbox.Decode(last.Payload)
	require.NoError(t, err)
	require.NotNil(t, env.Amount)
	require.True(t, env.Amount.Equal(decimal.NewFromInt(150)))
	require.True(t, env.Account.Balance.Equal(decimal.NewFromInt(150)))
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	f := newFixture(t)
	account := f.openSavings(t, uuid.New())

	_, err := f.svc.Deposit(context.Background(), account.ID, decimal.Zero)
	require.ErrorIs(t, err, bank.ErrValidation)

	_, err = f.svc.Deposit(context.Background(), account.ID, decimal.NewFromInt(-5))
	require.ErrorIs(t, err, bank.ErrValidation)
}

func TestDepositUnknownAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Deposit(context.Background(), uuid.New(), decimal.NewFromInt(10))
	require.ErrorIs(t, err, bank.ErrNotFound)
}

func TestWithdrawGuardsAgainstOverdraft(t *testing.T) {
	f := newFixture(t)
	account := f.openSavings(t, uuid.New())
	_, err := f.svc.Deposit(context.Background(), account.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	before := len(f.pendingFacts(t))

	_, err = f.svc.Withdraw(context.Background(), account.ID, decimal.NewFromInt(41))
	require.ErrorIs(t, err, bank.ErrInsufficientFunds)

	// A rejected withdrawal leaves the balance and the outbox alone.
	current, err := f.accounts.Get(context.Background(), account.ID)
	require.NoError(t, err)
	require.True(t, current.Balance.Equal(decimal.NewFromInt(40)))
	require.Len(t, f.pendingFacts(t), before)
}

func TestWithdrawUpdatesBalanceAndEmitsFact(t *testing.T) {
	f := newFixture(t)
	account := f.openSavings(t, uuid.New())
	_, err := f.svc.Deposit(context.Background(), account.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	updated, err := f.svc.Withdraw(context.Background(), account.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(decimal.NewFromInt(70)))

	facts := f.pendingFacts(t)
	last := facts[len(facts)-1]
	require.Equal(t, outbox.KindMoneyWithdrawn, last.Kind)
}

func TestTransferMovesFundsAndEmitsSingleFact(t *testing.T) {
	f := newFixture(t)
	source := f.openSavings(t, uuid.New())
	dest := f.openSavings(t, uuid.New())
	_, err := f.svc.Deposit(context.Background(), source.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	before := len(f.pendingFacts(t))

	returned, err := f.svc.Transfer(context.Background(), source.ID, dest.ID, decimal.NewFromInt(25))
	require.NoError(t, err)
	require.Equal(t, dest.ID, returned.ID)
	require.True(t, returned.Balance.Equal(decimal.NewFromInt(25)))

	current, err := f.accounts.Get(context.Background(), source.ID)
	require.NoError(t, err)
	require.True(t, current.Balance.Equal(decimal.NewFromInt(75)))

	facts := f.pendingFacts(t)
	require.Len(t, facts, before+1)
	last := facts[len(facts)-1]
	require.Equal(t, outbox.KindMoneyTransferred, last.Kind)

	env, err := outbox.Decode(last.Payload)
	require.NoError(t, err)
	require.Equal(t, source.ID, env.Account.ID)
	require.NotNil(t, env.Counterparty)
	require.Equal(t, dest.ID, env.Counterparty.ID)
	require.True(t, env.Account.Balance.Equal(decimal.NewFromInt(75)))
	require.True(t, env.Counterparty.Balance.Equal(decimal.NewFromInt(25)))
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	source := f.openSavings(t, uuid.New())
	dest := f.openSavings(t, uuid.New())

	_, err := f.svc.Transfer(context.Background(), source.ID, source.ID, decimal.NewFromInt(5))
	require.ErrorIs(t, err, bank.ErrValidation)

	_, err = f.svc.Transfer(context.Background(), source.ID, dest.ID, decimal.Zero)
	require.ErrorIs(t, err, bank.ErrValidation)

	_, err = f.svc.Transfer(context.Background(), source.ID, dest.ID, decimal.NewFromInt(5))
	require.ErrorIs(t, err, bank.ErrInsufficientFunds)
}
