package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(25)

	expense := Transaction{Type: TransactionTypeExpense, Amount: amount}
	assert.True(t, expense.SignedAmount().Equal(amount.Neg()))

	income := Transaction{Type: TransactionTypeIncome, Amount: amount}
	assert.True(t, income.SignedAmount().Equal(amount))
}

func TestTransactionMatches(t *testing.T) {
	occurredAt := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	base := Transaction{
		Type:        TransactionTypeExpense,
		Amount:      decimal.NewFromInt(30),
		Category:    "Food",
		Description: "lunch",
		OccurredAt:  occurredAt,
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   bool
	}{
		{
			name:   "identical content",
			mutate: func(o *Transaction) {},
			want:   true,
		},
		{
			name: "timestamp round-tripped at microsecond precision",
			mutate: func(o *Transaction) {
				o.OccurredAt = occurredAt.Truncate(time.Microsecond)
			},
			want: true,
		},
		{
			name: "different microsecond",
			mutate: func(o *Transaction) {
				o.OccurredAt = occurredAt.Add(time.Microsecond)
			},
			want: false,
		},
		{
			name:   "different type",
			mutate: func(o *Transaction) { o.Type = TransactionTypeIncome },
			want:   false,
		},
		{
			name:   "different amount",
			mutate: func(o *Transaction) { o.Amount = decimal.NewFromInt(31) },
			want:   false,
		},
		{
			name:   "different category",
			mutate: func(o *Transaction) { o.Category = "Transport" },
			want:   false,
		},
		{
			name:   "different description",
			mutate: func(o *Transaction) { o.Description = "dinner" },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			assert.Equal(t, tt.want, base.Matches(&other))
		})
	}
}
