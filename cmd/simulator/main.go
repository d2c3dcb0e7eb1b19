package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/auditlog"
	"github.com/banksim-dev/banksim/internal/holders"
	"github.com/banksim-dev/banksim/internal/ledger"
	"github.com/banksim-dev/banksim/internal/outbox"
)

// The simulator walks one customer through a full lifecycle against
// in-memory stores: open a savings account, link a checking account,
// move money around, then materialize the outbox and print both audit
// trails.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	holderRepo := holders.NewMemoryRepository()
	accountRepo := accounts.NewMemoryRepository()
	ob := outbox.NewMemoryOutbox()
	store := auditlog.NewMemoryStore()

	svc := ledger.NewService(accountRepo, holderRepo, ob, logger)
	materializer := auditlog.NewMaterializer(ob, store, nil, nil, logger)

	holderID := uuid.New()

	savings, err := svc.AddAccount(ctx, ledger.AddAccountParams{
		HolderName:     "Ada Brooks",
		HolderPublicID: holderID,
		Kind:           accounts.KindSavings,
	})
	fatalOn(err, "open savings account")
	fmt.Printf("opened savings account %s\n", savings.ID)

	_, err = svc.Deposit(ctx, savings.ID, decimal.NewFromInt(100))
	fatalOn(err, "deposit into savings")

	checking, err := svc.AddAccount(ctx, ledger.AddAccountParams{
		HolderName:      "Ada Brooks",
		HolderPublicID:  holderID,
		Kind:            accounts.KindChecking,
		LinkedAccountID: &savings.ID,
	})
	fatalOn(err, "open checking account")
	fmt.Printf("opened checking account %s linked to %s\n", checking.ID, savings.ID)

	_, err = svc.Deposit(ctx, checking.ID, decimal.NewFromInt(1000))
	fatalOn(err, "deposit into checking")

	_, err = svc.Withdraw(ctx, checking.ID, decimal.NewFromInt(10))
	fatalOn(err, "withdraw from checking")

	_, err = svc.Transfer(ctx, checking.ID, savings.ID, decimal.NewFromInt(10))
	fatalOn(err, "transfer checking to savings")

	result, err := materializer.MaterializePending(ctx)
	fatalOn(err, "materialize outbox")
	fmt.Printf("materialized %d facts into %d records\n", result.Facts, result.Records)

	for _, account := range []uuid.UUID{savings.ID, checking.ID} {
		records, err := store.ListByAccount(ctx, account)
		fatalOn(err, "list audit trail")
		fmt.Printf("\naudit trail for %s:\n", account)
		for _, record := range records {
			fmt.Printf("  %s\n", record)
		}
	}

	final, err := accountRepo.Get(ctx, savings.ID)
	fatalOn(err, "load savings")
	fmt.Printf("\nfinal savings balance: %s\n", final.Balance)
	final, err = accountRepo.Get(ctx, checking.ID)
	fatalOn(err, "load checking")
	fmt.Printf("final checking balance: %s\n", final.Balance)
}

func fatalOn(err error, step string) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
		os.Exit(1)
	}
}
