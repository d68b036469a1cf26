package store

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/internal/ledger/domain"
	"github.com/feyli/moneymood/pkg/money"
)

// NewAccount is the input for AddAccount.
type NewAccount struct {
	Name           string
	Type           domain.AccountType
	Currency       string
	OpeningBalance decimal.Decimal
	CreditLimit    *decimal.Decimal
}

// AccountPatch carries the fields UpdateAccount replaces. Nil fields are
// left untouched.
type AccountPatch struct {
	Name        *string
	Type        *domain.AccountType
	Currency    *string
	CreditLimit *decimal.Decimal
}

// AddAccount validates and inserts a new account. Name uniqueness is
// case/space-insensitive and spans archived accounts too.
func (s *Store) AddAccount(ctx context.Context, in NewAccount) (domain.Account, error) {
	account := domain.Account{
		ID:             domain.NewLocalID(),
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		Currency:       in.Currency,
		OpeningBalance: in.OpeningBalance,
		CreditLimit:    in.CreditLimit,
		CreatedAt:      time.Now().UTC(),
	}

	if err := account.ValidateCreate(); err != nil {
		return domain.Account{}, err
	}

	s.mu.Lock()

	if s.nameTakenLocked(account.Name, "") {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrAccountNameDuplicate
	}

	s.accounts = append(s.accounts, account)
	s.version++
	s.persist(ctx, keyAccounts, s.accounts)
	s.mu.Unlock()

	s.notifyChanged(ChangedAccounts)
	return account, nil
}

// nameTakenLocked reports whether the normalized name is already used by any
// account other than exclude.
func (s *Store) nameTakenLocked(name string, exclude domain.ID) bool {
	normalized := domain.NormalizeName(name)
	for _, a := range s.accounts {
		if a.ID != exclude && domain.NormalizeName(a.Name) == normalized {
			return true
		}
	}
	return false
}

// UpdateAccount patches an account in place, preserving its id.
func (s *Store) UpdateAccount(ctx context.Context, id domain.ID, patch AccountPatch) (domain.Account, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	account := s.accounts[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrMissingAccountName
		}
		if s.nameTakenLocked(name, account.ID) {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrAccountNameDuplicate
		}
		account.Name = name
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrInvalidAccountType
		}
		account.Type = *patch.Type
	}
	if patch.Currency != nil {
		if !money.IsSupported(*patch.Currency) {
			s.mu.Unlock()
			return domain.Account{}, domain.ErrUnsupportedCurrency
		}
		account.Currency = *patch.Currency
	}
	if patch.CreditLimit != nil {
		limit := *patch.CreditLimit
		account.CreditLimit = &limit
	}

	s.accounts[idx] = account
	s.version++
	s.persist(ctx, keyAccounts, s.accounts)
	s.mu.Unlock()

	s.notifyChanged(ChangedAccounts)
	return account, nil
}

// ArchiveAccount flips the archived flag. Only balanced accounts can be
// archived; the account stays in storage for historical references.
func (s *Store) ArchiveAccount(ctx context.Context, id domain.ID) (domain.Account, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	if !money.IsZero(s.balancesLocked()[id]) {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrBalanceNotZero
	}

	s.accounts[idx].Archived = true
	account := s.accounts[idx]
	s.version++
	s.persist(ctx, keyAccounts, s.accounts)
	s.mu.Unlock()

	s.notifyChanged(ChangedAccounts)
	return account, nil
}

// DeleteAccount hard-removes the account. Transactions referencing it are
// left in place and become orphans; the balance engine ignores them.
func (s *Store) DeleteAccount(ctx context.Context, id domain.ID) (domain.Account, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Account{}, domain.ErrAccountNotFound
	}

	removed := s.accounts[idx]
	next := make([]domain.Account, 0, len(s.accounts)-1)
	next = append(next, s.accounts[:idx]...)
	next = append(next, s.accounts[idx+1:]...)
	s.accounts = next
	s.version++
	s.persist(ctx, keyAccounts, s.accounts)
	s.mu.Unlock()

	if s.hooks.AccountDeleted != nil {
		s.hooks.AccountDeleted(removed)
	}
	return removed, nil
}
