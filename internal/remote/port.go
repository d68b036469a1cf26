// Package remote defines the contract of the authoritative remote
// persistence service. The remote store wins on reconciliation across
// sessions and devices; within a live process the in-memory ledger is
// authoritative and the remote store is a mirror.
package remote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRow mirrors the transaction fields with a server-assigned id.
// ID is uuid.Nil for rows that have not been inserted yet.
type TransactionRow struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Type            string
	Amount          decimal.Decimal
	Category        string
	Description     string
	OccurredAt      time.Time
	Currency        string
	AccountID       string
	Emotion         string
	TransferGroupID string
	IsTransfer      bool
}

// AccountRow mirrors the account fields with a server-assigned id.
type AccountRow struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           string
	Currency       string
	OpeningBalance decimal.Decimal
	CreditLimit    *decimal.Decimal
	Archived       bool
	CreatedAt      time.Time
}

// SettingsRow is the single preferences row per user.
type SettingsRow struct {
	UserID   uuid.UUID
	Currency string
	Language string
	Theme    string
}

// Store is the narrow remote contract the reconciliation engine consumes.
//
// Upsert methods update rows whose ID is set and insert rows whose ID is
// uuid.Nil, letting the server assign one. Returned slices correspond
// positionally to the input so callers can learn the assigned ids.
type Store interface {
	UpsertTransactions(ctx context.Context, rows []TransactionRow) ([]TransactionRow, error)
	DeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	FetchTransactions(ctx context.Context, userID uuid.UUID) ([]TransactionRow, error)

	UpsertAccounts(ctx context.Context, rows []AccountRow) ([]AccountRow, error)
	DeleteAccounts(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	FetchAccounts(ctx context.Context, userID uuid.UUID) ([]AccountRow, error)

	// GetSettings returns nil when the user has no settings row yet.
	GetSettings(ctx context.Context, userID uuid.UUID) (*SettingsRow, error)
	UpsertSettings(ctx context.Context, row SettingsRow) error
}
