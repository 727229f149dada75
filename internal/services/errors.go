package services

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden           = errors.New("not allowed for this member")
	ErrInvalidCredentials  = errors.New("incorrect name or password")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("a member with this name already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSetupCompleted      = errors.New("household setup has already been completed")
	ErrCannotDeleteSelf    = errors.New("admins cannot delete their own account")
	ErrUnauthenticated     = errors.New("authentication required")
)

// ValidationError kinds.
const (
	KindRequired         = "required"
	KindTooShort         = "too_short"
	KindTooLong          = "too_long"
	KindInvalid          = "invalid"
	KindMismatch         = "mismatch"
	KindCategoryMismatch = "category_mismatch"
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Kind    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, kind, message string) *ValidationError {
	return &ValidationError{Field: field, Kind: kind, Message: message}
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
