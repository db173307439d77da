// Package errors defines the domain error taxonomy: validation errors
// (user-correctable), transition errors (a validation subclass), and the
// not-found sentinel used for both genuinely missing rows and rows outside
// the actor's scope, so probing cannot distinguish the two.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned for rows that do not exist and for
	// rows the actor is not allowed to see.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNotPermitted is returned when the actor's role does not allow a
	// mutation. Reads never surface this; they surface ErrRecordNotFound.
	ErrNotPermitted = errors.New("operation not permitted")

	// ErrNoActiveVersion is returned when a task is created against a care
	// plan with no active version.
	ErrNoActiveVersion = errors.New("care plan has no active version")

	// ErrScopeUnavailable is returned when the manager assignment lookup
	// itself failed. It must never be collapsed into an empty scope.
	ErrScopeUnavailable = errors.New("failed to resolve access scope")
)

// ValidationError is a user-correctable input or precondition failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a formatted validation error.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransitionError is a validation error for an illegal status transition.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition from %q to %q", e.Entity, e.From, e.To)
}

// NewTransitionError creates a transition error for the given entity.
func NewTransitionError(entity, from, to string) *TransitionError {
	return &TransitionError{Entity: entity, From: from, To: to}
}

// IsValidation reports whether the error is user-correctable: a validation
// error, a transition error, or an unmet precondition.
func IsValidation(err error) bool {
	var ve *ValidationError
	var te *TransitionError
	return errors.As(err, &ve) || errors.As(err, &te) || errors.Is(err, ErrNoActiveVersion)
}
