package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Opposite returns the other direction. Used to build transfer legs.
func (t TransactionType) Opposite() TransactionType {
	if t == TransactionTypeIncome {
		return TransactionTypeExpense
	}
	return TransactionTypeIncome
}

// Transaction represents a single income or expense record. Amounts are
// always stored non-negative; the effect on the balance is derived from Type.
type Transaction struct {
	ID              ID              `json:"id"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
	Currency        string          `json:"currency"` // denormalized from the owning account at creation
	AccountID       ID              `json:"account_id"`
	Emotion         string          `json:"emotion,omitempty"`
	TransferGroupID string          `json:"transfer_group_id,omitempty"`
	IsTransfer      bool            `json:"is_transfer"`
}

// SignedAmount returns the transaction's effect on its account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Matches reports whether the transaction has the same user-visible content
// as other. The reconciliation engine uses this to resolve a remote row for a
// record whose local id was never translated to a server id. Timestamps are
// compared at microsecond precision: remote rows round-trip through
// TIMESTAMPTZ, which drops nanoseconds.
func (t *Transaction) Matches(other *Transaction) bool {
	return t.Type == other.Type &&
		t.Amount.Equal(other.Amount) &&
		t.Category == other.Category &&
		t.Description == other.Description &&
		t.OccurredAt.Truncate(time.Microsecond).Equal(other.OccurredAt.Truncate(time.Microsecond))
}
