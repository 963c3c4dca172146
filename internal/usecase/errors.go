package usecase

import crerr "github.com/cockroachdb/errors"

// Sentinels shared by every service. Handlers map them onto HTTP statuses, so
// wrap them with %w instead of returning new errors.
var (
	ErrInvalidInput = crerr.New("invalid input")      // 400
	ErrNotFound     = crerr.New("resource not found") // 404
	ErrUnauthorized = crerr.New("unauthorized")       // 401

	// ErrDependencyUnavailable covers disabled integrations and open
	// breakers; it maps to 503.
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
