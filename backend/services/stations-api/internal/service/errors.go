package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUserExists is returned when the username or email is already registered.
	ErrUserExists = errors.New("auth: user already exists")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrMissingCredential is returned when no bearer token accompanies a request.
	ErrMissingCredential = errors.New("auth: missing credential")
	// ErrInvalidCredential covers malformed, forged and expired tokens.
	ErrInvalidCredential = errors.New("auth: invalid credential")
)

// ReasonRequired marks a ValidationError caused by an absent field.
const ReasonRequired = "is required"

// ValidationError reports request input rejected before it reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// IsMissing reports whether the error is about an absent field.
func (e *ValidationError) IsMissing() bool {
	return e.Reason == ReasonRequired
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
