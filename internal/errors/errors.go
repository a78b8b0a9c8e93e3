// Package errors defines the domain error type shared by every service.
//
// Callers match on sentinels with the standard library:
//
//	if errors.Is(err, apperrors.ErrInsufficientFunds) { ... }
//
// and on the broad category with KindOf.
package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
	KindPersistence       Kind = "persistence"
)

type DomainError struct {
	Code    string
	Message string
	Kind    Kind
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on Code so that a sentinel still matches after WithMessage.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func newError(kind Kind, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: kind}
}

// Validation builds an ad-hoc validation error.
func Validation(code, message string) *DomainError {
	return newError(KindValidation, code, message)
}

// Persistence wraps an unexpected storage failure.
func Persistence(err error) *DomainError {
	return &DomainError{
		Code:    "PERSISTENCE_ERROR",
		Message: "storage operation failed",
		Kind:    KindPersistence,
		Err:     err,
	}
}

// Wrap leaves domain errors untouched and turns anything else into a persistence error.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return err
	}
	return Persistence(err)
}

// KindOf reports the category of err. Errors outside the domain are persistence errors.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

// Generic
var (
	ErrInvalidAmount = newError(KindValidation, "INVALID_AMOUNT", "amount must be positive with at most two decimals")
	ErrUserNotFound  = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
)
