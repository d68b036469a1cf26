package domain

import (
	apperrors "github.com/feyli/moneymood/internal/shared/errors"
)

// Named failure signals for ledger invariants. All of these are detected
// synchronously, before any state mutation is installed.
var (
	ErrAccountNotFound        = apperrors.New(apperrors.CodeAccountNotFound, "account not found")
	ErrSameAccount            = apperrors.New(apperrors.CodeSameAccount, "source and destination accounts are the same")
	ErrInvalidAmount          = apperrors.New(apperrors.CodeInvalidAmount, "amount must be positive")
	ErrDifferentCurrency      = apperrors.New(apperrors.CodeDifferentCurrency, "accounts use different currencies")
	ErrInsufficientFunds      = apperrors.New(apperrors.CodeInsufficientFunds, "insufficient funds")
	ErrCreditLimitExceeded    = apperrors.New(apperrors.CodeCreditLimitExceeded, "credit limit exceeded")
	ErrInitialBalanceNegative = apperrors.New(apperrors.CodeInitialBalanceNegative, "opening balance cannot be negative for this account type")
	ErrAccountNameDuplicate   = apperrors.New(apperrors.CodeAccountNameDuplicate, "account name already exists")
	ErrBalanceNotZero         = apperrors.New(apperrors.CodeBalanceNotZero, "account balance must be zero before archiving")

	ErrTransactionNotFound    = apperrors.NotFound("transaction")
	ErrCategoryNotFound       = apperrors.NotFound("category")
	ErrUnsupportedCurrency    = apperrors.Validation("unsupported currency code")
	ErrInvalidAccountType     = apperrors.Validation("invalid account type")
	ErrInvalidTransactionType = apperrors.Validation("invalid transaction type")
	ErrMissingAccountName     = apperrors.Validation("account name is required")
	ErrMissingCategoryName    = apperrors.Validation("category name is required")
)
