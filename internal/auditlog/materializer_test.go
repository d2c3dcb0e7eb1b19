package auditlog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banksim-dev/banksim/internal/accounts"
	"github.com/banksim-dev/banksim/internal/outbox"
)

func snapshot() outbox.Snapshot {
	return outbox.Snapshot{
		ID:       uuid.New(),
		HolderID: uuid.New(),
		Kind:     accounts.KindSavings,
		Balance:  decimal.NewFromInt(100),
	}
}

func mustFact(t *testing.T) func(outbox.Fact, error) outbox.Fact {
	t.Helper()
	return func(fact outbox.Fact, err error) outbox.Fact {
		t.Helper()
		require.NoError(t, err)
		return fact
	}
}

func recordsFor(t *testing.T, store Store, accountID uuid.UUID) []Record {
	t.Helper()
	records, err := store.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)
	return records
}

func TestMaterializeEmptyOutbox(t *testing.T) {
	m := NewMaterializer(outbox.NewMemoryOutbox(), NewMemoryStore(), nil, nil, nil)

	result, err := m.MaterializePending(context.Background())
	require.NoError(t, err)
	require.Zero(t, result.Facts)
	require.Zero(t, result.Records)
	require.Equal(t, "no pending facts", result.Message)
}

func TestMaterializeConvertsEachKind(t *testing.T) {
	ob := outbox.NewMemoryOutbox()
	store := NewMemoryStore()
	ctx := context.Background()

	created := snapshot()
	linkedTarget := uuid.New()
	checking := snapshot()
	checking.Kind = accounts.KindChecking
	checking.LinkedAccountID = &linkedTarget
	reassigned := snapshot()
	reassigned.HolderPublicID = uuid.New()
	closed := snapshot()
	moved := snapshot()
	source, dest := snapshot(), snapshot()
	amount := decimal.NewFromInt(25)

	facts := []outbox.Fact{
		mustFact(t)(outbox.AccountFact(outbox.KindAccountCreated, created)),
		mustFact(t)(outbox.AccountFact(outbox.KindAccountLinked, checking)),
		mustFact(t)(outbox.AccountFact(outbox.KindAccountReassigned, reassigned)),
		mustFact(t)(outbox.AccountFact(outbox.KindAccountClosed, closed)),
		mustFact(t)(outbox.MovementFact(outbox.KindMoneyDeposited, moved, amount)),
		mustFact(t)(outbox.MovementFact(outbox.KindMoneyWithdrawn, moved, amount)),
		mustFact(t)(outbox.TransferFact(source, dest, amount)),
	}
	require.NoError(t, ob.AppendMany(ctx, facts))

	m := NewMaterializer(ob, store, nil, nil, nil)
	result, err := m.MaterializePending(ctx)
	require.NoError(t, err)
	require.Equal(t, 7, result.Facts)
	require.Equal(t, 8, result.Records) // the transfer fact yields one record per side

	remaining, err := ob.DrainAll(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining, "consumed facts must be removed")

	createdTrail := recordsFor(t, store, created.ID)
	require.Len(t, createdTrail, 1)
	require.Equal(t, EventCreated, createdTrail[0].EventType)
	require.Empty(t, createdTrail[0].Metadata)

	// The linked record lands on the account being linked to.
	linkedTrail := recordsFor(t, store, linkedTarget)
	require.Len(t, linkedTrail, 1)
	require.Equal(t, EventLinked, linkedTrail[0].EventType)
	require.Equal(t, checking.ID.String(), linkedTrail[0].Metadata[MetaLinkedAccountID])
	require.Empty(t, recordsFor(t, store, checking.ID))

	reassignedTrail := recordsFor(t, store, reassigned.ID)
	require.Len(t, reassignedTrail, 1)
	require.Equal(t, EventReassigned, reassignedTrail[0].EventType)
	require.Equal(t, reassigned.HolderPublicID.String(), reassignedTrail[0].Metadata[MetaAccountOwner])

	closedTrail := recordsFor(t, store, closed.ID)
	require.Len(t, closedTrail, 1)
	require.Equal(t, EventClosed, closedTrail[0].EventType)

	movedTrail := recordsFor(t, store, moved.ID)
	require.Len(t, movedTrail, 2)
	require.Equal(t, EventDeposit, movedTrail[0].EventType)
	require.Equal(t, amount.String(), movedTrail[0].Metadata[MetaAmount])
	require.Equal(t, moved.Balance.String(), movedTrail[0].Metadata[MetaBalance])
	require.Equal(t, EventWithdraw, movedTrail[1].EventType)

	sourceTrail := recordsFor(t, store, source.ID)
	require.Len(t, sourceTrail, 1)
	require.Equal(t, EventTransfer, sourceTrail[0].EventType)
	require.Equal(t, dest.ID.String(), sourceTrail[0].Metadata[MetaToAccount])
	require.Equal(t, amount.String(), sourceTrail[0].Metadata[MetaAmount])

	destTrail := recordsFor(t, store, dest.ID)
	require.Len(t, destTrail, 1)
	require.Equal(t, source.ID.String(), destTrail[0].Metadata[MetaFromAccount])
}

func TestMaterializeDiscardsUnknownKinds(t *testing.T) {
	ob := outbox.NewMemoryOutbox()
	store := NewMemoryStore()
	ctx := context.Background()

	known := snapshot()
	require.NoError(t, ob.AppendMany(ctx, []outbox.Fact{
		outbox.NewFact(outbox.Kind("account.frobnicated"), []byte(`{}`)),
		mustFact(t)(outbox.AccountFact(outbox.KindAccountCreated, known)),
	}))

	m := NewMaterializer(ob, store, nil, nil, nil)
	result, err := m.MaterializePending(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Facts)
	require.Equal(t, 1, result.Records)

	remaining, err := ob.DrainAll(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining, "unknown facts must still be removed")
}

func TestMaterializeDropsUnconvertibleFacts(t *testing.T) {
	ob := outbox.NewMemoryOutbox()
	store := NewMemoryStore()
	ctx := context.Background()

	// A linked fact without a link target cannot produce a record.
	broken := snapshot()
	require.NoError(t, ob.Append(ctx, mustFact(t)(outbox.AccountFact(outbox.KindAccountLinked, broken))))

	m := NewMaterializer(ob, store, nil, nil, nil)
	result, err := m.MaterializePending(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Facts)
	require.Zero(t, result.Records)

	remaining, err := ob.DrainAll(ctx)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

type failingStore struct {
	*MemoryStore
}

func (s failingStore) AppendMany(ctx context.Context, records []Record) error {
	return errors.New("store unavailable")
}

func TestMaterializeFailedAppendLeavesOutboxUntouched(t *testing.T) {
	ob := outbox.NewMemoryOutbox()
	ctx := context.Background()
	require.NoError(t, ob.Append(ctx, mustFact(t)(outbox.AccountFact(outbox.KindAccountCreated, snapshot()))))

	m := NewMaterializer(ob, failingStore{NewMemoryStore()}, nil, nil, nil)
	_, err := m.MaterializePending(ctx)
	require.Error(t, err)

	remaining, err := ob.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "facts stay pending for the next pass")
}

func TestMaterializeCancelledContext(t *testing.T) {
	ob := outbox.NewMemoryOutbox()
	ctx := context.Background()
	require.NoError(t, ob.Append(ctx, mustFact(t)(outbox.AccountFact(outbox.KindAccountCreated, snapshot()))))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	store := NewMemoryStore()
	m := NewMaterializer(ob, store, nil, nil, nil)
	_, err := m.MaterializePending(cancelled)
	require.ErrorIs(t, err, context.Canceled)

	remaining, err := ob.DrainAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
}
