// Package common defines sentinel errors shared by repositories, services
// and transports. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Request validation errors.
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidPaceType  = errors.New("invalid pace type")

	// Export errors.
	ErrExportUnavailable = errors.New("export storage not configured")
)
