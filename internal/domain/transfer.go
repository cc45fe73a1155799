package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is the audit record of a single value movement. One row is written
// atomically with the state mutation that caused it; the sum of rows per kind
// reconciles against the pool aggregates.
type Transfer struct {
	ID        uuid.UUID `json:"id"`
	AccountID string    `json:"account_id"` // "" for treasury/reserve movements
	Kind      string    `json:"kind"`       // TransferDepositIn, TransferCommission, ...
	Amount    int64     `json:"amount"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTransfer stamps a transfer row with a fresh ID and timestamp.
func NewTransfer(accountID, kind string, amount int64, memo string) Transfer {
	return Transfer{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Memo:      memo,
		CreatedAt: time.Now().UTC(),
	}
}
