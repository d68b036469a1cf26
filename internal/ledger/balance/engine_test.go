package balance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/feyli/moneymood/internal/ledger/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	acc := domain.Account{
		ID:             domain.NewLocalID(),
		Name:           "Cash",
		Type:           domain.AccountTypeCash,
		Currency:       "CNY",
		OpeningBalance: dec("100"),
	}

	txns := []domain.Transaction{
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeExpense, Amount: dec("30"), Category: "food", AccountID: acc.ID},
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeIncome, Amount: dec("50"), Category: "salary", AccountID: acc.ID},
	}

	balances := Compute([]domain.Account{acc}, txns)
	assert.True(t, balances[acc.ID].Equal(dec("120")), "100 - 30 + 50 = 120, got %s", balances[acc.ID])

	// Deleting the expense raises the balance.
	balances = Compute([]domain.Account{acc}, txns[1:])
	assert.True(t, balances[acc.ID].Equal(dec("150")))
}

func TestComputeIgnoresUnresolvableAccounts(t *testing.T) {
	acc := domain.Account{
		ID:             domain.NewLocalID(),
		OpeningBalance: dec("10"),
	}

	txns := []domain.Transaction{
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeExpense, Amount: dec("5"), AccountID: acc.ID},
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeExpense, Amount: dec("999"), AccountID: domain.ID("loc_gone")},
	}

	balances := Compute([]domain.Account{acc}, txns)
	assert.Len(t, balances, 1)
	assert.True(t, balances[acc.ID].Equal(dec("5")))
}

func TestOrphans(t *testing.T) {
	acc := domain.Account{ID: domain.NewLocalID(), OpeningBalance: dec("0")}
	ghost := domain.ID("loc_deadbeef")

	txns := []domain.Transaction{
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeIncome, Amount: dec("1"), AccountID: acc.ID},
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeExpense, Amount: dec("2"), AccountID: ghost},
	}

	orphans := Orphans([]domain.Account{acc}, txns)
	assert.Len(t, orphans, 1)
	assert.Equal(t, ghost, orphans[0].AccountID)
}

func TestEngineMemoization(t *testing.T) {
	acc := domain.Account{ID: domain.NewLocalID(), OpeningBalance: dec("100")}
	txns := []domain.Transaction{
		{ID: domain.NewLocalID(), Type: domain.TransactionTypeExpense, Amount: dec("40"), AccountID: acc.ID},
	}

	e := NewEngine()

	first := e.Balances(1, []domain.Account{acc}, txns)
	assert.True(t, first[acc.ID].Equal(dec("60")))

	// Same version: the cached map is reused even if the inputs changed
	// (callers only bump the version when the collections change).
	second := e.Balances(1, []domain.Account{acc}, nil)
	assert.True(t, second[acc.ID].Equal(dec("60")))

	// New version: recomputed.
	third := e.Balances(2, []domain.Account{acc}, nil)
	assert.True(t, third[acc.ID].Equal(dec("100")))
}
