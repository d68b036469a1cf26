package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/localstore"
	"github.com/feyli/moneymood/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(localstore.NewMemoryStore(), logger.NewDefault("test"))
	require.NoError(t, s.Load(context.Background()))
	return s
}

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func addCashAccount(t *testing.T, s *Store, name, opening string) domain.Account {
	t.Helper()
	account, err := s.AddAccount(context.Background(), NewAccount{
		Name:           name,
		Type:           domain.AccountTypeCash,
		Currency:       "CNY",
		OpeningBalance: dec(t, opening),
	})
	require.NoError(t, err)
	return account
}

func TestBalanceFollowsTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	expense, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "30"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	balance, err := s.Balance(account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "70")), "got %s", balance)

	_, err = s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeIncome,
		Amount:    dec(t, "50"),
		Category:  "Salary",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	balance, err = s.Balance(account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "120")), "got %s", balance)

	_, err = s.DeleteTransaction(ctx, expense.ID)
	require.NoError(t, err)

	balance, err = s.Balance(account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "150")), "got %s", balance)
}

func TestAddTransactionDefaultsToFirstAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	first := addCashAccount(t, s, "First", "100")
	addCashAccount(t, s, "Second", "100")

	txn, err := s.AddTransaction(ctx, NewTransaction{
		Type:     domain.TransactionTypeExpense,
		Amount:   dec(t, "10"),
		Category: "Food",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, txn.AccountID)
	assert.Equal(t, "CNY", txn.Currency)
}

func TestAddTransactionValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	tests := []struct {
		name    string
		in      NewTransaction
		wantErr error
	}{
		{
			name: "invalid type",
			in: NewTransaction{
				Type:      "loan",
				Amount:    dec(t, "10"),
				AccountID: account.ID,
			},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name: "zero amount",
			in: NewTransaction{
				Type:      domain.TransactionTypeExpense,
				Amount:    decimal.Zero,
				AccountID: account.ID,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			in: NewTransaction{
				Type:      domain.TransactionTypeIncome,
				Amount:    dec(t, "-5"),
				AccountID: account.ID,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown account",
			in: NewTransaction{
				Type:      domain.TransactionTypeExpense,
				Amount:    dec(t, "10"),
				AccountID: "loc_deadbeef",
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "insufficient funds",
			in: NewTransaction{
				Type:      domain.TransactionTypeExpense,
				Amount:    dec(t, "100.01"),
				AccountID: account.ID,
			},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddTransaction(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was inserted.
	assert.Empty(t, s.Transactions())
}

func TestAddExpenseWithinEpsilon(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	// Spending the exact balance is allowed.
	_, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "100"),
		Category:  "Rent",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	balance, err := s.Balance(account.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestUpdateTransactionSkipsSufficiencyCheck(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	txn, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	// Raising the amount past the balance is a correction, not a new debit.
	amount := dec(t, "500")
	updated, err := s.UpdateTransaction(ctx, txn.ID, TransactionPatch{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, txn.ID, updated.ID)
	assert.True(t, updated.Amount.Equal(amount))

	balance, err := s.Balance(account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "-400")), "got %s", balance)
}

func TestUpdateTransactionMovesAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := addCashAccount(t, s, "Source", "100")

	dst, err := s.AddAccount(ctx, NewAccount{
		Name:           "Euro Wallet",
		Type:           domain.AccountTypeCash,
		Currency:       "EUR",
		OpeningBalance: dec(t, "0"),
	})
	require.NoError(t, err)

	txn, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: src.ID,
	})
	require.NoError(t, err)

	updated, err := s.UpdateTransaction(ctx, txn.ID, TransactionPatch{AccountID: &dst.ID})
	require.NoError(t, err)
	assert.Equal(t, dst.ID, updated.AccountID)
	// Currency is re-denormalized from the new owner.
	assert.Equal(t, "EUR", updated.Currency)
}

func TestUpdateTransactionNotFound(t *testing.T) {
	s := newTestStore(t)
	category := "Food"
	_, err := s.UpdateTransaction(context.Background(), "loc_missing", TransactionPatch{Category: &category})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestDeleteTransactionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.DeleteTransaction(context.Background(), "loc_missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestChangeHookFiresAfterMutation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var changes []Changed
	s.SetHooks(Hooks{Changed: func(c Changed) { changes = append(changes, c) }})

	account := addCashAccount(t, s, "Wallet", "100")
	require.Len(t, changes, 1)
	assert.Equal(t, ChangedAccounts, changes[0])

	_, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeIncome,
		Amount:    dec(t, "5"),
		Category:  "Salary",
		AccountID: account.ID,
	})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, ChangedTransactions, changes[1])
}

func TestDeletionHookReceivesRemovedRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	var removed []domain.Transaction
	s.SetHooks(Hooks{TransactionDeleted: func(txn domain.Transaction) { removed = append(removed, txn) }})

	txn, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	_, err = s.DeleteTransaction(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, txn.ID, removed[0].ID)
}

func TestRemapAccountIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	txn, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	serverID := domain.ID("5f8a1c9e-0d2b-4f3a-9c8d-7e6f5a4b3c2d")
	changed := s.RemapAccountIDs(ctx, map[domain.ID]domain.ID{account.ID: serverID})
	assert.True(t, changed)

	transactions := s.Transactions()
	require.Len(t, transactions, 1)
	assert.Equal(t, serverID, transactions[0].AccountID)
	assert.Equal(t, txn.ID, transactions[0].ID)

	// A second pass with the same mapping is a no-op.
	assert.False(t, s.RemapAccountIDs(ctx, map[domain.ID]domain.ID{account.ID: serverID}))
}

func TestLoadInitializesDefaultCatalogs(t *testing.T) {
	s := newTestStore(t)
	assert.NotEmpty(t, s.ExpenseCategories())
	assert.NotEmpty(t, s.IncomeCategories())
	assert.Equal(t, "CNY", s.Settings().Currency)
}

func TestLoadRoundTripsThroughLocalStore(t *testing.T) {
	ctx := context.Background()
	local := localstore.NewMemoryStore()
	log := logger.NewDefault("test")

	s := New(local, log)
	require.NoError(t, s.Load(ctx))
	account := addCashAccount(t, s, "Wallet", "100")
	_, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeIncome,
		Amount:    dec(t, "5"),
		Category:  "Salary",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	// A fresh store over the same local store sees the persisted state.
	reloaded := New(local, log)
	require.NoError(t, reloaded.Load(ctx))
	assert.Len(t, reloaded.Accounts(), 1)
	assert.Len(t, reloaded.Transactions(), 1)

	balance, err := reloaded.Balance(account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "105")), "got %s", balance)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var pushed []domain.Settings
	s.SetHooks(Hooks{SettingsChanged: func(settings domain.Settings) { pushed = append(pushed, settings) }})

	err := s.UpdateSettings(ctx, domain.Settings{Currency: "USD", Language: "en", Theme: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "USD", s.Settings().Currency)
	require.Len(t, pushed, 1)

	err = s.UpdateSettings(ctx, domain.Settings{Currency: "XYZ"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
	assert.Equal(t, "USD", s.Settings().Currency)
}

func TestApplyImportReplacesTransactions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	account := addCashAccount(t, s, "Wallet", "100")

	_, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	var changes []Changed
	s.SetHooks(Hooks{Changed: func(c Changed) { changes = append(changes, c) }})

	imported := []domain.Transaction{{
		ID:       domain.NewLocalID(),
		Type:     domain.TransactionTypeIncome,
		Amount:   dec(t, "7"),
		Category: "Gift",
	}}
	catalogs := []domain.Category{{ID: domain.NewLocalID(), Name: "Imported"}}
	s.ApplyImport(ctx, imported, catalogs, nil, "EUR")

	transactions := s.Transactions()
	require.Len(t, transactions, 1)
	assert.Equal(t, "Gift", transactions[0].Category)

	assert.Equal(t, catalogs, s.ExpenseCategories())
	// Income catalog was absent from the document, so it is preserved.
	assert.NotEmpty(t, s.IncomeCategories())
	assert.Equal(t, "EUR", s.Settings().Currency)

	// One reconciliation trigger for the whole restore.
	require.Len(t, changes, 1)
	assert.Equal(t, ChangedTransactions, changes[0])
}

// brokenWriteStore refuses writes once broken, like a local store that went
// away mid-restore. Get and RemoveMany keep working.
type brokenWriteStore struct {
	*localstore.MemoryStore
	broken bool
}

func (s *brokenWriteStore) Set(ctx context.Context, key, value string) error {
	if s.broken {
		return errors.New("write refused")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestApplyImportRewritesWholeMirror(t *testing.T) {
	ctx := context.Background()
	local := localstore.NewMemoryStore()
	log := logger.NewDefault("test")

	s := New(local, log)
	require.NoError(t, s.Load(ctx))
	account := addCashAccount(t, s, "Wallet", "100")
	_, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	s.ApplyImport(ctx, []domain.Transaction{{
		ID:       domain.NewLocalID(),
		Type:     domain.TransactionTypeIncome,
		Amount:   dec(t, "7"),
		Category: "Gift",
	}}, nil, nil, "")

	// The mirror carries the restored ledger plus the preserved catalogs and
	// currency, so a reload agrees with memory.
	reloaded := New(local, log)
	require.NoError(t, reloaded.Load(ctx))
	transactions := reloaded.Transactions()
	require.Len(t, transactions, 1)
	assert.Equal(t, "Gift", transactions[0].Category)
	assert.Equal(t, s.ExpenseCategories(), reloaded.ExpenseCategories())
	assert.Equal(t, s.IncomeCategories(), reloaded.IncomeCategories())
	assert.Equal(t, s.Settings(), reloaded.Settings())
}

func TestApplyImportClearsStaleMirrorWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	local := &brokenWriteStore{MemoryStore: localstore.NewMemoryStore()}
	log := logger.NewDefault("test")

	s := New(local, log)
	require.NoError(t, s.Load(ctx))
	account := addCashAccount(t, s, "Wallet", "100")
	_, err := s.AddTransaction(ctx, NewTransaction{
		Type:      domain.TransactionTypeExpense,
		Amount:    dec(t, "10"),
		Category:  "Food",
		AccountID: account.ID,
	})
	require.NoError(t, err)

	local.broken = true
	s.ApplyImport(ctx, []domain.Transaction{{
		ID:       domain.NewLocalID(),
		Type:     domain.TransactionTypeIncome,
		Amount:   dec(t, "7"),
		Category: "Gift",
	}}, nil, nil, "")

	// Memory holds the restored ledger even though no write landed.
	require.Len(t, s.Transactions(), 1)

	// The mirror lost the restore, but it must not hold the replaced ledger
	// either: a reload sees an empty transaction list, never "Food".
	reloaded := New(local.MemoryStore, log)
	require.NoError(t, reloaded.Load(ctx))
	assert.Empty(t, reloaded.Transactions())
}
