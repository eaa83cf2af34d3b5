// Package common defines shared constants and sentinel errors used across
// the manga backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Session lifecycle errors.
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrInvalidOldPassword = errors.New("invalid old password")
)
