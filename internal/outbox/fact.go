// Package outbox holds the pending domain facts emitted by the ledger
// and drained by the audit materializer. Facts live here only until
// they are materialized; the outbox is not a permanent event log.
package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the closed set of fact kinds the pipeline understands.
type Kind string

const (
	KindAccountCreated    Kind = "account.created"
	KindAccountLinked     Kind = "account.linked"
	KindAccountReassigned Kind = "account.reassigned"
	KindAccountClosed     Kind = "account.closed"
	KindMoneyDeposited    Kind = "money.deposited"
	KindMoneyWithdrawn    Kind = "money.withdrawn"
	KindMoneyTransferred  Kind = "money.transferred"
)

// Fact is an immutable record of something that happened to an
// account, queued for later audit materialization. The payload is an
// opaque envelope whose shape depends on the kind.
type Fact struct {
	ID        uuid.UUID
	Kind      Kind
	Payload   []byte
	CreatedAt time.Time
}

// NewFact builds a fact with a fresh id.
func NewFact(kind Kind, payload []byte) Fact {
	return Fact{
		ID:        uuid.New(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}
