// Package store owns the in-memory authoritative copy of the ledger:
// accounts, transactions, the two category catalogs, and user settings.
//
// All collections are single-writer. Mutations are validated against the
// balance engine before anything is installed, installed as one atomic swap
// under the store mutex, and then mirrored to the local key-value store.
// Readers never observe a half-applied multi-record change.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/balance"
	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/internal/localstore"
	"github.com/feyli/moneymood/pkg/logger"
	"github.com/feyli/moneymood/pkg/money"
)

// Local store keys. Each holds one JSON blob.
const (
	keyTransactions      = "moneymood:transactions"
	keyAccounts          = "moneymood:accounts"
	keyExpenseCategories = "moneymood:categories:expense"
	keyIncomeCategories  = "moneymood:categories:income"
	keySettings          = "moneymood:settings"
)

// Changed identifies which collections a mutation touched.
type Changed uint8

const (
	ChangedTransactions Changed = 1 << iota
	ChangedAccounts
)

// Hooks let the composition root react to mutations without the store
// depending on the reconciliation engine. All hooks are invoked after the
// mutation is installed and the store lock released.
type Hooks struct {
	// Changed fires after any mutation to accounts or transactions.
	Changed func(Changed)

	// TransactionDeleted fires with the removed record so the remote copy
	// can be deleted as well.
	TransactionDeleted func(domain.Transaction)

	// AccountDeleted fires with the removed account.
	AccountDeleted func(domain.Account)

	// SettingsChanged fires when user preferences change.
	SettingsChanged func(domain.Settings)
}

// Store is the ledger's single owner of state for the lifetime of the
// process. The local persistent store and the remote store are mirrors,
// never sources of truth while the process is live.
type Store struct {
	mu    sync.Mutex
	log   *logger.Logger
	local localstore.Store
	hooks Hooks

	accounts     []domain.Account
	transactions []domain.Transaction
	expenseCats  []domain.Category
	incomeCats   []domain.Category
	settings     domain.Settings

	// version counts mutations of (accounts, transactions); the balance
	// engine memoizes on it.
	version  uint64
	balances *balance.Engine
}

// New creates an empty store backed by the given local KV store.
func New(local localstore.Store, log *logger.Logger) *Store {
	return &Store{
		log:      log.WithField("component", "ledger_store"),
		local:    local,
		settings: domain.DefaultSettings(),
		balances: balance.NewEngine(),
	}
}

// SetHooks installs the mutation hooks. Must be called before the store is
// shared across goroutines.
func (s *Store) SetHooks(h Hooks) {
	s.hooks = h
}

// Load reads all collections from the local store. Missing keys initialize
// to defaults: empty ledger, built-in category catalogs.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loadJSON(ctx, s.local, keyTransactions, &s.transactions); err != nil {
		return err
	}
	if err := loadJSON(ctx, s.local, keyAccounts, &s.accounts); err != nil {
		return err
	}
	if err := loadJSON(ctx, s.local, keyExpenseCategories, &s.expenseCats); err != nil {
		return err
	}
	if err := loadJSON(ctx, s.local, keyIncomeCategories, &s.incomeCats); err != nil {
		return err
	}

	var settings domain.Settings
	found, err := loadJSONFound(ctx, s.local, keySettings, &settings)
	if err != nil {
		return err
	}
	if found {
		s.settings = settings
	}

	if len(s.expenseCats) == 0 {
		s.expenseCats = domain.DefaultExpenseCategories()
	}
	if len(s.incomeCats) == 0 {
		s.incomeCats = domain.DefaultIncomeCategories()
	}

	s.version++
	s.log.Info("ledger loaded",
		"accounts", len(s.accounts),
		"transactions", len(s.transactions))
	return nil
}

func loadJSON(ctx context.Context, local localstore.Store, key string, dst interface{}) error {
	_, err := loadJSONFound(ctx, local, key, dst)
	return err
}

func loadJSONFound(ctx context.Context, local localstore.Store, key string, dst interface{}) (bool, error) {
	raw, ok, err := local.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

// persist mirrors one collection into the local store. Persistence failures
// are logged and swallowed: the in-memory state stays authoritative and the
// next successful write catches up.
func (s *Store) persist(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Error("failed to encode collection", "key", key, "error", err)
		return
	}
	if err := s.local.Set(ctx, key, string(raw)); err != nil {
		s.log.Error("failed to persist collection", "key", key, "error", err)
	}
}

// Accounts returns a copy of the account collection.
func (s *Store) Accounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Transactions returns a copy of the transaction collection.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Account returns the account with the given id.
func (s *Store) Account(id domain.ID) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findAccount(id)
}

func (s *Store) findAccount(id domain.ID) (domain.Account, bool) {
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Account{}, false
}

// Balances returns the derived balance of every account.
func (s *Store) Balances() map[domain.ID]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balancesLocked()
}

// Balance returns the derived balance of one account.
func (s *Store) Balance(id domain.ID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findAccount(id); !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return s.balancesLocked()[id], nil
}

func (s *Store) balancesLocked() map[domain.ID]decimal.Decimal {
	return s.balances.Balances(s.version, s.accounts, s.transactions)
}

// OrphanedTransactions lists transactions whose owning account has been hard
// deleted. Maintenance surface only; balances already ignore them.
func (s *Store) OrphanedTransactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return balance.Orphans(s.accounts, s.transactions)
}

// Settings returns the current user preferences.
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the user preferences and writes them through.
func (s *Store) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if settings.Currency != "" && !money.IsSupported(settings.Currency) {
		return domain.ErrUnsupportedCurrency
	}

	s.mu.Lock()
	if settings.Currency == "" {
		settings.Currency = s.settings.Currency
	}
	s.settings = settings
	s.persist(ctx, keySettings, s.settings)
	s.mu.Unlock()

	if s.hooks.SettingsChanged != nil {
		s.hooks.SettingsChanged(settings)
	}
	return nil
}

// AdoptSettings installs preferences pulled from the remote store without
// firing the write-through hook.
func (s *Store) AdoptSettings(ctx context.Context, settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.persist(ctx, keySettings, s.settings)
}

// ReplaceTransactions installs the server's canonical transaction set as one
// atomic swap. Used by the reconciliation engine after a pull; does not fire
// the change hook, which would re-trigger a sync.
func (s *Store) ReplaceTransactions(ctx context.Context, transactions []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = transactions
	s.version++
	s.persist(ctx, keyTransactions, s.transactions)
}

// ReplaceAccounts installs the server's canonical account set as one atomic
// swap. Same contract as ReplaceTransactions.
func (s *Store) ReplaceAccounts(ctx context.Context, accounts []domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.version++
	s.persist(ctx, keyAccounts, s.accounts)
}

// RemapAccountIDs rewrites transaction account references after the
// reconciliation engine has translated local account ids to server ids.
// Returns true when any reference changed.
func (s *Store) RemapAccountIDs(ctx context.Context, mapping map[domain.ID]domain.ID) bool {
	if len(mapping) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.transactions {
		if serverID, ok := mapping[s.transactions[i].AccountID]; ok {
			s.transactions[i].AccountID = serverID
			changed = true
		}
	}
	if changed {
		s.version++
		s.persist(ctx, keyTransactions, s.transactions)
	}
	return changed
}

// ApplyImport installs a restored ledger: the transaction list is replaced
// wholesale, category catalogs and the selected currency only when the
// document carried non-empty values. A restore is destructive by design, not
// an append. Fires the change hook once so an active session reconciles.
func (s *Store) ApplyImport(ctx context.Context, transactions []domain.Transaction, expenseCats, incomeCats []domain.Category, currency string) {
	s.mu.Lock()

	// Drop the mirrored blobs before rewriting them: if a persist below
	// fails, the mirror must not keep the replaced ledger, which a later
	// load would resurrect.
	if err := s.local.RemoveMany(ctx, keyTransactions, keyExpenseCategories, keyIncomeCategories, keySettings); err != nil {
		s.log.Error("failed to clear local mirror before restore", "error", err)
	}

	s.transactions = transactions
	s.version++
	s.persist(ctx, keyTransactions, s.transactions)

	if len(expenseCats) > 0 {
		s.expenseCats = expenseCats
	}
	s.persist(ctx, keyExpenseCategories, s.expenseCats)
	if len(incomeCats) > 0 {
		s.incomeCats = incomeCats
	}
	s.persist(ctx, keyIncomeCategories, s.incomeCats)
	if currency != "" && money.IsSupported(currency) {
		s.settings.Currency = currency
	}
	s.persist(ctx, keySettings, s.settings)

	s.mu.Unlock()
	s.notifyChanged(ChangedTransactions)
}

// notifyChanged fires the change hook outside the store lock.
func (s *Store) notifyChanged(c Changed) {
	if s.hooks.Changed != nil {
		s.hooks.Changed(c)
	}
}
