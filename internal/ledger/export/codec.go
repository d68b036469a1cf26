// Package export serializes the ledger to a portable, versioned JSON
// document and restores it. A restore replaces the transaction list rather
// than merging into it.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/ledger/store"
	apperrors "github.com/feyli/moneymood/internal/shared/errors"
)

// FormatVersion is written into every exported document.
const FormatVersion = 1

// Document is the top-level export format.
type Document struct {
	Version           int               `json:"version"`
	ExportedAt        time.Time         `json:"exportedAt"`
	Currency          string            `json:"currency"`
	ExpenseCategories []domain.Category `json:"expenseCategories"`
	IncomeCategories  []domain.Category `json:"incomeCategories"`
	Transactions      []Record          `json:"transactions"`
}

// Record is one exported transaction. Dates are ISO-8601 strings.
type Record struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Emotion     string `json:"emotion,omitempty"`
	Currency    string `json:"currency"`
	AccountID   string `json:"accountId,omitempty"`
}

// Export serializes the current ledger state.
func Export(s *store.Store) ([]byte, error) {
	transactions := s.Transactions()
	records := make([]Record, 0, len(transactions))
	for _, t := range transactions {
		records = append(records, Record{
			ID:          t.ID.String(),
			Type:        string(t.Type),
			Amount:      t.Amount.String(),
			Category:    t.Category,
			Description: t.Description,
			Date:        t.OccurredAt.UTC().Format(time.RFC3339),
			Emotion:     t.Emotion,
			Currency:    t.Currency,
			AccountID:   t.AccountID.String(),
		})
	}

	doc := Document{
		Version:           FormatVersion,
		ExportedAt:        time.Now().UTC(),
		Currency:          s.Settings().Currency,
		ExpenseCategories: s.ExpenseCategories(),
		IncomeCategories:  s.IncomeCategories(),
		Transactions:      records,
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Import parses an exported document and installs it. On any structural
// failure nothing is mutated and an IMPORT_FAILED error is returned. On
// success the transaction list is replaced (local-shaped ids regenerated),
// catalogs and currency adopted when present, and one reconciliation cycle
// triggered through the store's change hook.
func Import(ctx context.Context, s *store.Store, data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return apperrors.ImportFailed("document is not valid JSON", err)
	}

	if doc.Version <= 0 || doc.Version > FormatVersion {
		return apperrors.ImportFailed(fmt.Sprintf("unsupported format version %d", doc.Version), nil)
	}

	transactions := make([]domain.Transaction, 0, len(doc.Transactions))
	for i, r := range doc.Transactions {
		txn, err := parseRecord(r)
		if err != nil {
			return apperrors.ImportFailed(fmt.Sprintf("transaction %d is invalid", i), err)
		}
		transactions = append(transactions, txn)
	}

	s.ApplyImport(ctx, transactions, doc.ExpenseCategories, doc.IncomeCategories, doc.Currency)
	return nil
}

func parseRecord(r Record) (domain.Transaction, error) {
	txnType := domain.TransactionType(r.Type)
	if !txnType.IsValid() {
		return domain.Transaction{}, fmt.Errorf("unknown transaction type %q", r.Type)
	}

	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	if amount.Sign() < 0 {
		return domain.Transaction{}, fmt.Errorf("amount %q is negative", r.Amount)
	}

	occurredAt, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	// Server-shaped ids survive a restore so reconciliation can still match
	// the remote rows; everything else gets a fresh local id.
	id := domain.ID(r.ID)
	if !id.IsServer() {
		id = domain.NewLocalID()
	}

	return domain.Transaction{
		ID:          id,
		Type:        txnType,
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description,
		OccurredAt:  occurredAt,
		Currency:    r.Currency,
		AccountID:   domain.ID(r.AccountID),
		Emotion:     r.Emotion,
	}, nil
}
