package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feyli/moneymood/pkg/money"
)

// AccountType represents the kind of account
type AccountType string

const (
	AccountTypeCash        AccountType = "cash"
	AccountTypeDebitCard   AccountType = "debit_card"
	AccountTypeCreditCard  AccountType = "credit_card"
	AccountTypePrepaidCard AccountType = "prepaid_card"
	AccountTypeVirtualCard AccountType = "virtual_card"
	AccountTypeEWallet     AccountType = "ewallet"
	AccountTypeInvestment  AccountType = "investment"
	AccountTypeOther       AccountType = "other"
)

// IsValid checks if the account type is one of the supported kinds
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCash, AccountTypeDebitCard, AccountTypeCreditCard,
		AccountTypePrepaidCard, AccountTypeVirtualCard, AccountTypeEWallet,
		AccountTypeInvestment, AccountTypeOther:
		return true
	}
	return false
}

// IsDebitLike reports whether the type holds real funds that cannot go
// negative: cash, debit card, prepaid card.
func (t AccountType) IsDebitLike() bool {
	return t == AccountTypeCash || t == AccountTypeDebitCard || t == AccountTypePrepaidCard
}

// Account represents a money account owned by the user
type Account struct {
	ID             ID               `json:"id"`
	Name           string           `json:"name"`
	Type           AccountType      `json:"type"`
	Currency       string           `json:"currency"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"` // credit-card types only
	Archived       bool             `json:"archived"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NormalizeName folds an account name for uniqueness comparison: case and
// whitespace insensitive.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// HasCreditLimit reports whether the account is a credit card with a
// configured positive limit.
func (a *Account) HasCreditLimit() bool {
	return a.Type == AccountTypeCreditCard && a.CreditLimit != nil && a.CreditLimit.Sign() > 0
}

// ValidateCreate validates account fields for creation
func (a *Account) ValidateCreate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrMissingAccountName
	}

	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}

	if !money.IsSupported(a.Currency) {
		return ErrUnsupportedCurrency
	}

	// Debit-like accounts hold real funds and cannot open in the red.
	if a.Type.IsDebitLike() && money.IsNegative(a.OpeningBalance) {
		return ErrInitialBalanceNegative
	}

	return nil
}
