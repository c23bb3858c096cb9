package infrastructure

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrTokenNotFound    = errors.New("invalid verification token")
	ErrTokenExpired     = errors.New("verification token has expired")
	ErrAttemptsExceeded = errors.New("exceeded maximum send attempts")
	ErrAlreadyActive    = errors.New("account already verified")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrEmailTaken       = errors.New("email address already registered")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTransport        = errors.New("notification dispatch failed")

	// ErrSentinelMissing means the reserved "deleted" account has not been
	// provisioned. Deployment defect, not a user error: callers must abort
	// rather than recover.
	ErrSentinelMissing = errors.New("sentinel deleted account missing")
)
