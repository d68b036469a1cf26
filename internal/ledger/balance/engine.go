// Package balance derives account balances from the ledger collections.
//
// The derivation is pure: opening balance plus the signed sum of the
// account's transactions. Every balance display and every sufficiency check
// in the ledger goes through this engine so they can never disagree.
package balance

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
)

// Compute derives the balance of every account from scratch. Transactions
// whose account id does not resolve are ignored; they do not affect any
// balance and are not a fault (see Orphans).
func Compute(accounts []domain.Account, transactions []domain.Transaction) map[domain.ID]decimal.Decimal {
	balances := make(map[domain.ID]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.ID] = a.OpeningBalance
	}

	for i := range transactions {
		t := &transactions[i]
		current, ok := balances[t.AccountID]
		if !ok {
			continue
		}
		balances[t.AccountID] = current.Add(t.SignedAmount())
	}

	return balances
}

// Orphans returns the transactions whose owning account no longer exists.
// Hard account deletes do not cascade, so these can accumulate; maintenance
// tooling lists them instead of silently repairing.
func Orphans(accounts []domain.Account, transactions []domain.Transaction) []domain.Transaction {
	known := make(map[domain.ID]bool, len(accounts))
	for _, a := range accounts {
		known[a.ID] = true
	}

	var orphans []domain.Transaction
	for _, t := range transactions {
		if !known[t.AccountID] {
			orphans = append(orphans, t)
		}
	}
	return orphans
}

// Engine memoizes Compute on a version counter. The ledger store bumps its
// version on every mutation of accounts or transactions; any number of reads
// between mutations reuse the cached map.
type Engine struct {
	mu      sync.Mutex
	version uint64
	valid   bool
	cached  map[domain.ID]decimal.Decimal
}

// NewEngine creates a balance engine with an empty cache.
func NewEngine() *Engine {
	return &Engine{}
}

// Balances returns the balance map for the given collections, recomputing
// only when version differs from the last computed one. The returned map
// must be treated as read-only.
func (e *Engine) Balances(version uint64, accounts []domain.Account, transactions []domain.Transaction) map[domain.ID]decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.valid && e.version == version {
		return e.cached
	}

	e.cached = Compute(accounts, transactions)
	e.version = version
	e.valid = true
	return e.cached
}
