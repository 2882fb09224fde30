package market

import (
	"errors"
	"fmt"
)

// Category sentinels. Every *ResultError unwraps to exactly one of these.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrStateConflict = errors.New("state conflict")
	ErrNotFound      = errors.New("not found")
	ErrPayment       = errors.New("payment error")
	ErrInternal      = errors.New("internal error")
)

// ResultError carries a failed Result and optional detail.
type ResultError struct {
	Result Result
	Detail string
}

// NewError builds a *ResultError with formatted detail.
func NewError(r Result, format string, args ...any) *ResultError {
	return &ResultError{Result: r, Detail: fmt.Sprintf(format, args...)}
}

func (e *ResultError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Result, e.Result.Message())
	}
	return fmt.Sprintf("%s: %s", e.Result, e.Detail)
}

func (e *ResultError) Unwrap() error {
	switch e.Result.Category() {
	case CategoryValidation:
		return ErrValidation
	case CategoryAuthorization:
		return ErrAuthorization
	case CategoryStateConflict:
		return ErrStateConflict
	case CategoryNotFound:
		return ErrNotFound
	case CategoryPayment:
		return ErrPayment
	default:
		return ErrInternal
	}
}

// ResultOf extracts the Result carried by err, MktINTERNAL for foreign
// errors and MktSUCCESS for nil.
func ResultOf(err error) Result {
	if err == nil {
		return MktSUCCESS
	}
	var re *ResultError
	if errors.As(err, &re) {
		return re.Result
	}
	return MktINTERNAL
}

// ValidateToken checks the (collection, token_id) pair every token
// command carries.
func ValidateToken(collection, tokenID string) error {
	if collection == "" {
		return NewError(MktVAL_MALFORMED, "collection is required")
	}
	if tokenID == "" {
		return NewError(MktVAL_MALFORMED, "token_id is required")
	}
	return nil
}
