package ledger

import "github.com/shopspring/decimal"

// NewAccountRequest is the account-opening payload.
type NewAccountRequest struct {
	HolderName      string  `json:"holder_name" validate:"required,max=200"`
	HolderPublicID  string  `json:"holder_public_id" validate:"required,uuid"`
	Kind            string  `json:"kind" validate:"required,oneof=savings checking"`
	LinkedAccountID *string `json:"linked_account_id,omitempty" validate:"omitempty,uuid"`
}

// TransactionRequest is the deposit/withdraw payload.
type TransactionRequest struct {
	AccountID string          `json:"account_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

// TransferRequest is the transfer payload.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" validate:"required,uuid"`
	ToAccountID   string          `json:"to_account_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}
