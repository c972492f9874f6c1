// Package apperrs defines the domain error values shared by the auth layer
// and the HTTP handlers. Handlers translate them to status codes in one place.
package apperrs

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredential     = errors.New("invalid credential")
	ErrAddressMismatch       = errors.New("address not allowed for this account")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrValidation            = errors.New("missing required field")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrConfirmationMismatch  = errors.New("password confirmation does not match")
	ErrSelfDeletionForbidden = errors.New("cannot delete the account of the active session")
	ErrTooManyAttempts       = errors.New("too many login attempts")
)
