package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feyli/moneymood/internal/ledger/domain"
)

func TestTransferWithFee(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	from := addCashAccount(t, s, "Checking", "100")
	to := addCashAccount(t, s, "Savings", "0")

	debit, credit, err := s.Transfer(ctx, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        dec(t, "40"),
		Fee:           dec(t, "2"),
	})
	require.NoError(t, err)

	// The debit leg carries amount plus fee, the credit leg the amount only.
	assert.Equal(t, domain.TransactionTypeExpense, debit.Type)
	assert.True(t, debit.Amount.Equal(dec(t, "42")), "got %s", debit.Amount)
	assert.Equal(t, domain.TransactionTypeIncome, credit.Type)
	assert.True(t, credit.Amount.Equal(dec(t, "40")), "got %s", credit.Amount)

	assert.Equal(t, TransferCategory, debit.Category)
	assert.True(t, debit.IsTransfer)
	assert.True(t, credit.IsTransfer)
	assert.NotEmpty(t, debit.TransferGroupID)
	assert.Equal(t, debit.TransferGroupID, credit.TransferGroupID)
	assert.True(t, debit.OccurredAt.Equal(credit.OccurredAt))

	fromBalance, err := s.Balance(from.ID)
	require.NoError(t, err)
	assert.True(t, fromBalance.Equal(dec(t, "58")), "got %s", fromBalance)

	toBalance, err := s.Balance(to.ID)
	require.NoError(t, err)
	assert.True(t, toBalance.Equal(dec(t, "40")), "got %s", toBalance)
}

func TestTransferPreconditions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	from := addCashAccount(t, s, "Checking", "100")
	to := addCashAccount(t, s, "Savings", "0")

	euro, err := s.AddAccount(ctx, NewAccount{
		Name:           "Euro Wallet",
		Type:           domain.AccountTypeCash,
		Currency:       "EUR",
		OpeningBalance: dec(t, "0"),
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      TransferInput
		wantErr error
	}{
		{
			name:    "unknown source",
			in:      TransferInput{FromAccountID: "loc_missing", ToAccountID: to.ID, Amount: dec(t, "10")},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "unknown destination",
			in:      TransferInput{FromAccountID: from.ID, ToAccountID: "loc_missing", Amount: dec(t, "10")},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "same account",
			in:      TransferInput{FromAccountID: from.ID, ToAccountID: from.ID, Amount: dec(t, "10")},
			wantErr: domain.ErrSameAccount,
		},
		{
			name:    "zero amount",
			in:      TransferInput{FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec(t, "0")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative fee",
			in:      TransferInput{FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec(t, "10"), Fee: dec(t, "-1")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "different currency",
			in:      TransferInput{FromAccountID: from.ID, ToAccountID: euro.ID, Amount: dec(t, "10")},
			wantErr: domain.ErrDifferentCurrency,
		},
		{
			name:    "insufficient funds including fee",
			in:      TransferInput{FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec(t, "99"), Fee: dec(t, "2")},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Transfer(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// A failed transfer installs neither leg.
	assert.Empty(t, s.Transactions())
}

func TestTransferFromCreditCardRespectsLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	limit := dec(t, "100")
	card, err := s.AddAccount(ctx, NewAccount{
		Name:           "Visa",
		Type:           domain.AccountTypeCreditCard,
		Currency:       "CNY",
		OpeningBalance: dec(t, "0"),
		CreditLimit:    &limit,
	})
	require.NoError(t, err)
	to := addCashAccount(t, s, "Savings", "0")

	// Debt of exactly the limit is allowed.
	_, _, err = s.Transfer(ctx, TransferInput{
		FromAccountID: card.ID,
		ToAccountID:   to.ID,
		Amount:        dec(t, "90"),
		Fee:           dec(t, "10"),
	})
	require.NoError(t, err)

	balance, err := s.Balance(card.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "-100")), "got %s", balance)

	// One unit further is not.
	_, _, err = s.Transfer(ctx, TransferInput{
		FromAccountID: card.ID,
		ToAccountID:   to.ID,
		Amount:        dec(t, "1"),
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
}

func TestDeleteTransferLegsIndependently(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	from := addCashAccount(t, s, "Checking", "100")
	to := addCashAccount(t, s, "Savings", "0")

	debit, _, err := s.Transfer(ctx, TransferInput{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        dec(t, "40"),
	})
	require.NoError(t, err)

	// Deleting one leg does not cascade to the other.
	_, err = s.DeleteTransaction(ctx, debit.ID)
	require.NoError(t, err)

	transactions := s.Transactions()
	require.Len(t, transactions, 1)
	assert.Equal(t, domain.TransactionTypeIncome, transactions[0].Type)
}
