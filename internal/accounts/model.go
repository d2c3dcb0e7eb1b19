package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported account kinds.
type Kind string

const (
	KindSavings  Kind = "savings"
	KindChecking Kind = "checking"
)

// Valid reports whether k is a known account kind.
func (k Kind) Valid() bool {
	return k == KindSavings || k == KindChecking
}

// KindInfo is the reference-data row served to clients when they open
// an account.
type KindInfo struct {
	Kind        Kind   `json:"kind"`
	DisplayName string `json:"display_name"`
	NeedsLink   bool   `json:"needs_link"`
}

// Kinds lists the account kinds in presentation order.
func Kinds() []KindInfo {
	return []KindInfo{
		{Kind: KindSavings, DisplayName: "Savings", NeedsLink: false},
		{Kind: KindChecking, DisplayName: "Checking", NeedsLink: true},
	}
}

// Account is a bank account. The balance is the only field mutated
// after creation, and only through the ledger operations.
type Account struct {
	ID              uuid.UUID       `json:"id"`
	HolderID        uuid.UUID       `json:"holder_id"`
	Kind            Kind            `json:"kind"`
	LinkedAccountID *uuid.UUID      `json:"linked_account_id,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"created_at"`
}
