package service

import "errors"

// Failure kinds surfaced to the protocol adapters. Adapters translate these
// into protocol-appropriate responses; raw storage errors are never exposed
// to a client.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountSuspended   = errors.New("account_suspended")
	ErrDuplicateUsername  = errors.New("duplicate_username")
	ErrWeakSecret         = errors.New("weak_secret")
	ErrInvalidInput       = errors.New("invalid_input")

	ErrSessionExpired  = errors.New("session_expired")
	ErrSessionRevoked  = errors.New("session_revoked")
	ErrSessionNotFound = errors.New("session_not_found")

	ErrUnknownOperation = errors.New("unknown_operation")
)
