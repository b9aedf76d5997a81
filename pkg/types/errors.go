package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrDonorNotFound        = fmt.Errorf("donor %w", ErrNotFound)
	ErrOrganizationNotFound = fmt.Errorf("organization %w", ErrNotFound)
	ErrAdminNotFound        = fmt.Errorf("admin %w", ErrNotFound)
	ErrDonationNotFound     = fmt.Errorf("donation %w", ErrNotFound)
	ErrCampaignNotFound     = fmt.Errorf("campaign %w", ErrNotFound)
	ErrFeedbackNotFound     = fmt.Errorf("feedback %w", ErrNotFound)

	ErrEmailExists   = fmt.Errorf("email %w", ErrConflict)
	ErrLicenseExists = fmt.Errorf("license number %w", ErrConflict)
)

// DomainError attaches a client-facing message to one of the sentinels above.
type DomainError struct {
	Message string
	Kind    error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func NewError(kind error, format string, args ...any) error {
	return &DomainError{Message: fmt.Sprintf(format, args...), Kind: kind}
}

// ValidationError is returned for missing or malformed input.
type ValidationError struct {
	Message string
	Fields  []string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RollbackError reports a donation submission whose writes were undone.
// Validation is true when every failure was bad input rather than a store
// error.
type RollbackError struct {
	Errors     []string
	Validation bool
}

func (e *RollbackError) Error() string {
	return "donation rolled back: " + strings.Join(e.Errors, "; ")
}

// PersistenceError wraps a failure of the backing store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err unless it already is a domain error that the
// caller should see as is.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	var derr *DomainError
	var rerr *RollbackError
	if errors.Is(err, ErrNotFound) || errors.As(err, &derr) || errors.As(err, &verr) || errors.As(err, &rerr) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
