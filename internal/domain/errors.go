package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrAttemptExpired       = errors.New("payment attempt has expired")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAmountMismatch       = errors.New("amount mismatch")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrEmptyCart            = errors.New("cart is empty")
)

// Persistence lookups and constraint violations surface as these sentinels.
var (
	ErrAttemptNotFound         = errors.New("payment attempt not found")
	ErrCartNotFound            = errors.New("cart not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrDuplicateMerchOrderID   = errors.New("merch order id already used")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeAttemptExpired       = "ATTEMPT_EXPIRED"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeAmountMismatch       = "AMOUNT_MISMATCH"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeEmptyCart            = "EMPTY_CART"
)

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
		Err:     ErrMissingRequiredField,
	}
}

func NewInvalidTransitionError(from, to AttemptStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func NewInvalidAmountError(amount string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %q", amount),
		Err:     ErrInvalidAmount,
	}
}

func NewAmountMismatchError(expected, actual string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmountMismatch,
		Message: fmt.Sprintf("amount mismatch: expected %s, got %s", expected, actual),
		Err:     ErrAmountMismatch,
	}
}

func NewAttemptExpiredError(merchOrderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAttemptExpired,
		Message: fmt.Sprintf("payment attempt %s has expired", merchOrderID),
		Err:     ErrAttemptExpired,
	}
}

func NewEmptyCartError(cartID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeEmptyCart,
		Message: fmt.Sprintf("cart %s has no items", cartID),
		Err:     ErrEmptyCart,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
