package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/pkg/money"
)

// NewTransaction is the input for AddTransaction. AccountID may be empty, in
// which case the first account owns the record.
type NewTransaction struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	OccurredAt  time.Time
	AccountID   domain.ID
	Emotion     string
}

// TransactionPatch carries the fields UpdateTransaction replaces. Nil fields
// are left untouched.
type TransactionPatch struct {
	Type        *domain.TransactionType
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	OccurredAt  *time.Time
	Emotion     *string
	AccountID   *domain.ID
}

// AddTransaction validates and inserts a new income or expense record.
//
// Expenses are checked against the owning account before insertion: debit-like
// accounts must hold at least the amount, credit cards with a configured
// limit must not exceed it after the debit.
func (s *Store) AddTransaction(ctx context.Context, in NewTransaction) (domain.Transaction, error) {
	s.mu.Lock()

	txn, err := s.buildTransactionLocked(in)
	if err != nil {
		s.mu.Unlock()
		return domain.Transaction{}, err
	}

	s.transactions = append(s.transactions, txn)
	s.version++
	s.persist(ctx, keyTransactions, s.transactions)
	s.mu.Unlock()

	s.notifyChanged(ChangedTransactions)
	return txn, nil
}

func (s *Store) buildTransactionLocked(in NewTransaction) (domain.Transaction, error) {
	if !in.Type.IsValid() {
		return domain.Transaction{}, domain.ErrInvalidTransactionType
	}
	if !money.IsPositive(in.Amount) {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	account, err := s.resolveAccountLocked(in.AccountID)
	if err != nil {
		return domain.Transaction{}, err
	}

	if in.Type == domain.TransactionTypeExpense {
		if err := s.checkDebitLocked(account, in.Amount); err != nil {
			return domain.Transaction{}, err
		}
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return domain.Transaction{
		ID:          domain.NewLocalID(),
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		OccurredAt:  occurredAt,
		Currency:    account.Currency,
		AccountID:   account.ID,
		Emotion:     in.Emotion,
	}, nil
}

// resolveAccountLocked resolves an explicit account id, or falls back to the
// first account when none is given.
func (s *Store) resolveAccountLocked(id domain.ID) (domain.Account, error) {
	if id == "" {
		if len(s.accounts) == 0 {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return s.accounts[0], nil
	}
	account, ok := s.findAccount(id)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

// checkDebitLocked enforces the sufficiency invariants for debiting amount
// from account.
func (s *Store) checkDebitLocked(account domain.Account, amount decimal.Decimal) error {
	current := s.balancesLocked()[account.ID]

	if account.HasCreditLimit() {
		// Debt after the debit, as a positive magnitude.
		debt := current.Sub(amount).Neg()
		if !money.LTE(debt, *account.CreditLimit) {
			return domain.ErrCreditLimitExceeded
		}
		return nil
	}

	if account.Type.IsDebitLike() && !money.GTE(current, amount) {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// UpdateTransaction replaces the given fields in place, preserving the id.
// Sufficiency checks are intentionally not re-run on update.
func (s *Store) UpdateTransaction(ctx context.Context, id domain.ID, patch TransactionPatch) (domain.Transaction, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	txn := s.transactions[idx]
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			s.mu.Unlock()
			return domain.Transaction{}, domain.ErrInvalidTransactionType
		}
		txn.Type = *patch.Type
	}
	if patch.Amount != nil {
		if !money.IsPositive(*patch.Amount) {
			s.mu.Unlock()
			return domain.Transaction{}, domain.ErrInvalidAmount
		}
		txn.Amount = *patch.Amount
	}
	if patch.Category != nil {
		txn.Category = *patch.Category
	}
	if patch.Description != nil {
		txn.Description = *patch.Description
	}
	if patch.OccurredAt != nil {
		txn.OccurredAt = *patch.OccurredAt
	}
	if patch.Emotion != nil {
		txn.Emotion = *patch.Emotion
	}
	if patch.AccountID != nil {
		account, ok := s.findAccount(*patch.AccountID)
		if !ok {
			s.mu.Unlock()
			return domain.Transaction{}, domain.ErrAccountNotFound
		}
		txn.AccountID = account.ID
		txn.Currency = account.Currency
	}

	s.transactions[idx] = txn
	s.version++
	s.persist(ctx, keyTransactions, s.transactions)
	s.mu.Unlock()

	s.notifyChanged(ChangedTransactions)
	return txn, nil
}

// DeleteTransaction removes the record locally. The removed record is handed
// to the deletion hook so an active session can delete the remote copy.
func (s *Store) DeleteTransaction(ctx context.Context, id domain.ID) (domain.Transaction, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	removed := s.transactions[idx]
	next := make([]domain.Transaction, 0, len(s.transactions)-1)
	next = append(next, s.transactions[:idx]...)
	next = append(next, s.transactions[idx+1:]...)
	s.transactions = next
	s.version++
	s.persist(ctx, keyTransactions, s.transactions)
	s.mu.Unlock()

	if s.hooks.TransactionDeleted != nil {
		s.hooks.TransactionDeleted(removed)
	}
	return removed, nil
}
