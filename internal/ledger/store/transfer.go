package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/pkg/money"
)

// TransferInput describes a move of funds between two accounts.
type TransferInput struct {
	FromAccountID domain.ID
	ToAccountID   domain.ID
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	OccurredAt    time.Time
	Description   string
}

// TransferCategory is the catalog name stamped onto transfer legs.
const TransferCategory = "Transfer"

// Transfer moves funds between two accounts by inserting a debit/credit pair
// of transactions that share a fresh transfer-group id. The pair is installed
// as one atomic state transition: either both legs exist or neither does.
//
// Preconditions are checked in order, each with its own named failure:
// account resolution, distinct accounts, positive amount, equal currencies,
// then sufficiency (credit limit for limited credit cards, available balance
// otherwise).
func (s *Store) Transfer(ctx context.Context, in TransferInput) (debit, credit domain.Transaction, err error) {
	s.mu.Lock()

	from, ok := s.findAccount(in.FromAccountID)
	if !ok {
		s.mu.Unlock()
		return domain.Transaction{}, domain.Transaction{}, domain.ErrAccountNotFound
	}
	to, ok := s.findAccount(in.ToAccountID)
	if !ok {
		s.mu.Unlock()
		return domain.Transaction{}, domain.Transaction{}, domain.ErrAccountNotFound
	}

	if from.ID == to.ID {
		s.mu.Unlock()
		return domain.Transaction{}, domain.Transaction{}, domain.ErrSameAccount
	}

	// A negative fee would break the debit >= credit invariant.
	if !money.IsPositive(in.Amount) || money.IsNegative(in.Fee) {
		s.mu.Unlock()
		return domain.Transaction{}, domain.Transaction{}, domain.ErrInvalidAmount
	}

	// No implicit FX conversion anywhere in the system.
	if from.Currency != to.Currency {
		s.mu.Unlock()
		return domain.Transaction{}, domain.Transaction{}, domain.ErrDifferentCurrency
	}

	totalDebit := in.Amount.Add(in.Fee)
	current := s.balancesLocked()[from.ID]

	if from.HasCreditLimit() {
		debt := current.Sub(totalDebit).Neg()
		if !money.LTE(debt, *from.CreditLimit) {
			s.mu.Unlock()
			return domain.Transaction{}, domain.Transaction{}, domain.ErrCreditLimitExceeded
		}
	} else if !money.GTE(current, totalDebit) {
		s.mu.Unlock()
		return domain.Transaction{}, domain.Transaction{}, domain.ErrInsufficientFunds
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	groupID := uuid.NewString()

	debit = domain.Transaction{
		ID:              domain.NewLocalID(),
		Type:            domain.TransactionTypeExpense,
		Amount:          totalDebit,
		Category:        TransferCategory,
		Description:     in.Description,
		OccurredAt:      occurredAt,
		Currency:        from.Currency,
		AccountID:       from.ID,
		TransferGroupID: groupID,
		IsTransfer:      true,
	}
	credit = domain.Transaction{
		ID:              domain.NewLocalID(),
		Type:            domain.TransactionTypeIncome,
		Amount:          in.Amount,
		Category:        TransferCategory,
		Description:     in.Description,
		OccurredAt:      occurredAt,
		Currency:        to.Currency,
		AccountID:       to.ID,
		TransferGroupID: groupID,
		IsTransfer:      true,
	}

	s.transactions = append(s.transactions, debit, credit)
	s.version++
	s.persist(ctx, keyTransactions, s.transactions)
	s.mu.Unlock()

	s.notifyChanged(ChangedTransactions)
	return debit, credit, nil
}
