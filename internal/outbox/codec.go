package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/banksim-dev/banksim/internal/accounts"
)

// Snapshot is the account state captured inside a fact payload, taken
// after the mutation the fact describes.
type Snapshot struct {
	ID              uuid.UUID       `json:"id"`
	HolderID        uuid.UUID       `json:"holder_id"`
	HolderPublicID  uuid.UUID       `json:"holder_public_id,omitempty"`
	Kind            accounts.Kind   `json:"kind"`
	LinkedAccountID *uuid.UUID      `json:"linked_account_id,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
}

// SnapshotOf captures the payload-relevant fields of an account.
func SnapshotOf(a accounts.Account) Snapshot {
	return Snapshot{
		ID:              a.ID,
		HolderID:        a.HolderID,
		Kind:            a.Kind,
		LinkedAccountID: a.LinkedAccountID,
		Balance:         a.Balance,
	}
}

// Envelope is the serialized payload carried by every fact: the
// affected account, an optional counterparty (transfers only) and an
// optional amount (money movements only).
type Envelope struct {
	Account      Snapshot         `json:"account"`
	Counterparty *Snapshot        `json:"counterparty,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
}

// Encode serializes the envelope into an opaque fact payload.
func (e Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("outbox: encode payload: %w", err)
	}
	return data, nil
}

// Decode deserializes a fact payload.
func Decode(payload []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(payload, &e); err != nil {
		return Envelope{}, fmt.Errorf("outbox: decode payload: %w", err)
	}
	return e, nil
}

// AccountFact builds a fact whose payload carries a single account
// snapshot (creation, linking, reassignment, closure).
func AccountFact(kind Kind, account Snapshot) (Fact, error) {
	payload, err := Envelope{Account: account}.Encode()
	if err != nil {
		return Fact{}, err
	}
	return NewFact(kind, payload), nil
}

// MovementFact builds a fact for a deposit or withdrawal: the account
// after the mutation plus the applied amount.
func MovementFact(kind Kind, account Snapshot, amount decimal.Decimal) (Fact, error) {
	payload, err := Envelope{Account: account, Amount: &amount}.Encode()
	if err != nil {
		return Fact{}, err
	}
	return NewFact(kind, payload), nil
}

// TransferFact builds the single fact emitted for a transfer, carrying
// both post-transfer snapshots and the moved amount.
func TransferFact(from, to Snapshot, amount decimal.Decimal) (Fact, error) {
	payload, err := Envelope{Account: from, Counterparty: &to, Amount: &amount}.Encode()
	if err != nil {
		return Fact{}, err
	}
	return NewFact(KindMoneyTransferred, payload), nil
}
