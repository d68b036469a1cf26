package errors

import (
	"errors"
	"fmt"
)

// AppError carries a stable machine-readable code alongside the message.
// Financial-invariant violations are always surfaced as AppErrors so callers
// can map them to localized messages.
type AppError struct {
	Code    string // Error code for client
	Message string // Human-readable message
	Err     error  // Underlying error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Ledger invariant codes. Each named failure in the ledger core uses exactly
// one of these.
const (
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeCreditLimitExceeded    = "CREDIT_LIMIT_EXCEEDED"
	CodeInitialBalanceNegative = "INITIAL_BALANCE_NEGATIVE"
	CodeAccountNameDuplicate   = "ACCOUNT_NAME_DUPLICATE"
	CodeBalanceNotZero         = "BALANCE_NOT_ZERO"
	CodeSameAccount            = "SAME_ACCOUNT"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeDifferentCurrency      = "DIFFERENT_CURRENCY"
	CodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
)

// Transport-level codes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeImportFailed = "IMPORT_FAILED"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates a validation error
func Validation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
	}
}

// ImportFailed creates a structured import parse failure
func ImportFailed(message string, err error) *AppError {
	return &AppError{
		Code:    CodeImportFailed,
		Message: message,
		Err:     err,
	}
}

// Code extracts the AppError code from an error, or CodeInternal when the
// error is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GetAppError extracts an AppError from an error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
