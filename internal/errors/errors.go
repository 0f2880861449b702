// Package errors separates user-facing failures from internal defects so
// the top level can print the former without a stack trace.
package errors

import (
	stderrors "errors"
	"fmt"
)

// UserError is a failure caused by the environment or the invocation, not
// by a bug: missing repository, malformed model selection, unreachable
// generation backend, invalid starting reference.
type UserError struct {
	Message string
	// Remediation lists actionable steps to resolve the failure.
	Remediation []string
	Err         error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a user-facing error with optional remediation hints.
func NewUserError(message string, remediation ...string) *UserError {
	return &UserError{Message: message, Remediation: remediation}
}

// WrapUser wraps an underlying error as user-facing.
func WrapUser(err error, message string, remediation ...string) *UserError {
	return &UserError{Message: message, Remediation: remediation, Err: err}
}

// IsUser reports whether err is (or wraps) a UserError.
func IsUser(err error) bool {
	var ue *UserError
	return stderrors.As(err, &ue)
}
