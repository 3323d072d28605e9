// Package common defines shared constants and sentinel errors used across
// client and server layers of hashzone. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Authorization errors (missing credential or insufficient rights).
	ErrorUnauthorized = errors.New("unauthorized")

	// Zone configuration errors (missing bucket or credentials).
	// Never retried: the zone must be reconfigured first.
	ErrConfiguration = errors.New("zone not configured")

	// Request validation errors (oversized payload, unsupported hash
	// algorithm, malformed hash). Rejected before any side effect.
	ErrValidation = errors.New("invalid request")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
