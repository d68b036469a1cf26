package sync

import (
	"github.com/google/uuid"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/remote"
)

// The translation boundary between the local record types and the remote row
// shapes. Local-only ids become uuid.Nil on the way out (push-as-insert) and
// server uuids become the new local ids on the way in.

func rowFromTransaction(userID uuid.UUID, t domain.Transaction) remote.TransactionRow {
	row := remote.TransactionRow{
		UserID:          userID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		Category:        t.Category,
		Description:     t.Description,
		OccurredAt:      t.OccurredAt,
		Currency:        t.Currency,
		AccountID:       t.AccountID.String(),
		Emotion:         t.Emotion,
		TransferGroupID: t.TransferGroupID,
		IsTransfer:      t.IsTransfer,
	}
	if id, err := t.ID.UUID(); err == nil {
		row.ID = id
	}
	return row
}

func transactionFromRow(r remote.TransactionRow) domain.Transaction {
	return domain.Transaction{
		ID:              domain.FromUUID(r.ID),
		Type:            domain.TransactionType(r.Type),
		Amount:          r.Amount,
		Category:        r.Category,
		Description:     r.Description,
		OccurredAt:      r.OccurredAt,
		Currency:        r.Currency,
		AccountID:       domain.ID(r.AccountID),
		Emotion:         r.Emotion,
		TransferGroupID: r.TransferGroupID,
		IsTransfer:      r.IsTransfer,
	}
}

func transactionsFromRows(rows []remote.TransactionRow) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, transactionFromRow(r))
	}
	return out
}

func rowFromAccount(userID uuid.UUID, a domain.Account) remote.AccountRow {
	row := remote.AccountRow{
		UserID:         userID,
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       a.Currency,
		OpeningBalance: a.OpeningBalance,
		CreditLimit:    a.CreditLimit,
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt,
	}
	if id, err := a.ID.UUID(); err == nil {
		row.ID = id
	}
	return row
}

func accountFromRow(r remote.AccountRow) domain.Account {
	return domain.Account{
		ID:             domain.FromUUID(r.ID),
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		Currency:       r.Currency,
		OpeningBalance: r.OpeningBalance,
		CreditLimit:    r.CreditLimit,
		Archived:       r.Archived,
		CreatedAt:      r.CreatedAt,
	}
}

func accountsFromRows(rows []remote.AccountRow) []domain.Account {
	out := make([]domain.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, accountFromRow(r))
	}
	return out
}

func rowFromSettings(userID uuid.UUID, s domain.Settings) remote.SettingsRow {
	return remote.SettingsRow{
		UserID:   userID,
		Currency: s.Currency,
		Language: s.Language,
		Theme:    s.Theme,
	}
}

func settingsFromRow(r remote.SettingsRow) domain.Settings {
	return domain.Settings{
		Currency: r.Currency,
		Language: r.Language,
		Theme:    r.Theme,
	}
}
