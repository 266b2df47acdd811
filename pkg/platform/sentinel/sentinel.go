// Package sentinel holds store-level errors. Stores wrap them with context and
// services map them onto domain error codes with errors.Is; they never reach
// the HTTP layer directly.
package sentinel

import "errors"

var (
	// ErrNotFound means no row or key matched.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint rejected the write.
	ErrConflict = errors.New("conflict")
	// ErrExpired covers lapsed sessions, login codes and cached resolutions.
	ErrExpired = errors.New("expired")
	// ErrAlreadyUsed marks a consumed login code.
	ErrAlreadyUsed = errors.New("already used")
	// ErrInvalidState rejects an operation the entity's status does not allow.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnavailable means a backend or breaker refused the call.
	ErrUnavailable = errors.New("unavailable")
)
