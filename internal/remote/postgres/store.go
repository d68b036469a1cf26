// Package postgres implements the remote store contract on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/remote"
)

// Store is a pgx-backed remote.Store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a remote store on an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const transactionColumns = `id, user_id, type, amount::text, category, description, occurred_at, currency, account_id, emotion, transfer_group_id, is_transfer`

// UpsertTransactions updates rows with ids and inserts rows without,
// returning the resulting rows in input order.
func (s *Store) UpsertTransactions(ctx context.Context, rows []remote.TransactionRow) ([]remote.TransactionRow, error) {
	out := make([]remote.TransactionRow, 0, len(rows))
	for _, r := range rows {
		var (
			row pgx.Row
		)
		if r.ID != uuid.Nil {
			row = s.pool.QueryRow(ctx, `
				INSERT INTO transactions (id, user_id, type, amount, category, description, occurred_at, currency, account_id, emotion, transfer_group_id, is_transfer)
				VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (id) DO UPDATE SET
					type = EXCLUDED.type,
					amount = EXCLUDED.amount,
					category = EXCLUDED.category,
					description = EXCLUDED.description,
					occurred_at = EXCLUDED.occurred_at,
					currency = EXCLUDED.currency,
					account_id = EXCLUDED.account_id,
					emotion = EXCLUDED.emotion,
					transfer_group_id = EXCLUDED.transfer_group_id,
					is_transfer = EXCLUDED.is_transfer
				RETURNING `+transactionColumns,
				r.ID, r.UserID, r.Type, r.Amount.String(), r.Category, r.Description,
				r.OccurredAt, r.Currency, r.AccountID, r.Emotion, r.TransferGroupID, r.IsTransfer)
		} else {
			row = s.pool.QueryRow(ctx, `
				INSERT INTO transactions (user_id, type, amount, category, description, occurred_at, currency, account_id, emotion, transfer_group_id, is_transfer)
				VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11)
				RETURNING `+transactionColumns,
				r.UserID, r.Type, r.Amount.String(), r.Category, r.Description,
				r.OccurredAt, r.Currency, r.AccountID, r.Emotion, r.TransferGroupID, r.IsTransfer)
		}

		scanned, err := scanTransaction(row)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert transaction: %w", err)
		}
		out = append(out, scanned)
	}
	return out, nil
}

// DeleteTransactions removes the given rows for the user.
func (s *Store) DeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

// FetchTransactions returns the complete transaction set for the user.
func (s *Store) FetchTransactions(ctx context.Context, userID uuid.UUID) ([]remote.TransactionRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY occurred_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	var out []remote.TransactionRow
	for rows.Next() {
		scanned, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scanned)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (remote.TransactionRow, error) {
	var (
		r         remote.TransactionRow
		amountStr string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Type, &amountStr, &r.Category, &r.Description,
		&r.OccurredAt, &r.Currency, &r.AccountID, &r.Emotion, &r.TransferGroupID, &r.IsTransfer)
	if err != nil {
		return remote.TransactionRow{}, fmt.Errorf("failed to scan transaction: %w", err)
	}
	r.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return remote.TransactionRow{}, fmt.Errorf("invalid amount in row: %w", err)
	}
	return r, nil
}

const accountColumns = `id, user_id, name, type, currency, opening_balance::text, credit_limit::text, archived, created_at`

// UpsertAccounts updates rows with ids and inserts rows without, returning
// the resulting rows in input order.
func (s *Store) UpsertAccounts(ctx context.Context, rows []remote.AccountRow) ([]remote.AccountRow, error) {
	out := make([]remote.AccountRow, 0, len(rows))
	for _, r := range rows {
		var creditLimit *string
		if r.CreditLimit != nil {
			v := r.CreditLimit.String()
			creditLimit = &v
		}

		var row pgx.Row
		if r.ID != uuid.Nil {
			row = s.pool.QueryRow(ctx, `
				INSERT INTO accounts (id, user_id, name, type, currency, opening_balance, credit_limit, archived, created_at)
				VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					type = EXCLUDED.type,
					currency = EXCLUDED.currency,
					opening_balance = EXCLUDED.opening_balance,
					credit_limit = EXCLUDED.credit_limit,
					archived = EXCLUDED.archived
				RETURNING `+accountColumns,
				r.ID, r.UserID, r.Name, r.Type, r.Currency, r.OpeningBalance.String(),
				creditLimit, r.Archived, r.CreatedAt)
		} else {
			row = s.pool.QueryRow(ctx, `
				INSERT INTO accounts (user_id, name, type, currency, opening_balance, credit_limit, archived, created_at)
				VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8)
				RETURNING `+accountColumns,
				r.UserID, r.Name, r.Type, r.Currency, r.OpeningBalance.String(),
				creditLimit, r.Archived, r.CreatedAt)
		}

		scanned, err := scanAccount(row)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert account: %w", err)
		}
		out = append(out, scanned)
	}
	return out, nil
}

// DeleteAccounts removes the given rows for the user.
func (s *Store) DeleteAccounts(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		`DELETE FROM accounts WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}
	return nil
}

// FetchAccounts returns the complete account set for the user.
func (s *Store) FetchAccounts(ctx context.Context, userID uuid.UUID) ([]remote.AccountRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	defer rows.Close()

	var out []remote.AccountRow
	for rows.Next() {
		scanned, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scanned)
	}
	return out, rows.Err()
}

func scanAccount(row pgx.Row) (remote.AccountRow, error) {
	var (
		r          remote.AccountRow
		openingStr string
		limitStr   *string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Type, &r.Currency, &openingStr,
		&limitStr, &r.Archived, &r.CreatedAt)
	if err != nil {
		return remote.AccountRow{}, fmt.Errorf("failed to scan account: %w", err)
	}
	r.OpeningBalance, err = decimal.NewFromString(openingStr)
	if err != nil {
		return remote.AccountRow{}, fmt.Errorf("invalid opening balance in row: %w", err)
	}
	if limitStr != nil {
		limit, err := decimal.NewFromString(*limitStr)
		if err != nil {
			return remote.AccountRow{}, fmt.Errorf("invalid credit limit in row: %w", err)
		}
		r.CreditLimit = &limit
	}
	return r, nil
}

// GetSettings returns the user's preferences row, or nil when absent.
func (s *Store) GetSettings(ctx context.Context, userID uuid.UUID) (*remote.SettingsRow, error) {
	var r remote.SettingsRow
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, currency, language, theme FROM user_settings WHERE user_id = $1`, userID).
		Scan(&r.UserID, &r.Currency, &r.Language, &r.Theme)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &r, nil
}

// UpsertSettings writes the user's preferences row.
func (s *Store) UpsertSettings(ctx context.Context, row remote.SettingsRow) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_settings (user_id, currency, language, theme)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			language = EXCLUDED.language,
			theme = EXCLUDED.theme,
			updated_at = now()`,
		row.UserID, row.Currency, row.Language, row.Theme)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}
