// Package auditlog owns the immutable per-account audit trail: the
// record model, its stores, the read-side service and the materializer
// that converts pending outbox facts into records.
package auditlog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an audit record.
type EventType string

const (
	EventCreated    EventType = "Created"
	EventLinked     EventType = "Linked"
	EventDeposit    EventType = "Deposit"
	EventWithdraw   EventType = "Withdraw"
	EventTransfer   EventType = "Transfer"
	EventReassigned EventType = "Reassigned"
	EventClosed     EventType = "Closed"
)

// Metadata keys written by the materializer.
const (
	MetaAmount          = "Amount"
	MetaBalance         = "Balance"
	MetaFromAccount     = "FromAccount"
	MetaToAccount       = "ToAccount"
	MetaLinkedAccountID = "LinkedAccountId"
	MetaAccountOwner    = "AccountOwner"
)

// Record is a permanent, queryable audit trail entry for one account.
// Records are append-only and never mutated or deleted.
type Record struct {
	ID        uuid.UUID         `json:"id"`
	EventType EventType         `json:"event_type"`
	AccountID uuid.UUID         `json:"account_id"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata"`
}

func (r Record) String() string {
	return fmt.Sprintf("Account %s: %s at %s -- %v", r.AccountID, r.EventType, r.CreatedAt.Format(time.RFC3339), r.Metadata)
}

func newRecord(eventType EventType, accountID uuid.UUID, metadata map[string]string) Record {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return Record{
		ID:        uuid.New(),
		EventType: eventType,
		AccountID: accountID,
		CreatedAt: time.Now().UTC(),
		Metadata:  metadata,
	}
}
