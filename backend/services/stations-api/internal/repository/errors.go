package repository

import "errors"

var (
	// ErrUserNotFound represents missing user rows.
	ErrUserNotFound = errors.New("user not found")
	// ErrStationNotFound represents missing station rows.
	ErrStationNotFound = errors.New("charging station not found")
	// ErrConstraintViolation is returned when a write breaks a unique or check constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)
