// Package errors provides error handling for sembrowse.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Wrap with context
//	if err := loadCorpus(root); err != nil {
//	    return errors.Wrapf(err, "failed to load corpus %s", nick)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "use --root nick=/path/to/model")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	Mark           = crdb.Mark
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Common sentinel errors.
// Use these with errors.Is() and wrap them with errors.Wrap() to add context.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrUnauthorized indicates missing or rejected credentials
	ErrUnauthorized = New("unauthorized")

	// ErrForbidden indicates the credentials lack a required capability
	ErrForbidden = New("forbidden")

	// ErrServiceUnavailable indicates a required service is not available
	ErrServiceUnavailable = New("service unavailable")

	// ErrInvalidConfig indicates a configuration problem that prevents startup
	ErrInvalidConfig = New("invalid configuration")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsConfigError checks if an error is or wraps ErrInvalidConfig
func IsConfigError(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// IsBackendError reports whether err is one of the usage backend failures
// that callers degrade around instead of aborting.
func IsBackendError(err error) bool {
	return err != nil && IsAny(err, ErrUnauthorized, ErrForbidden, ErrServiceUnavailable)
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}

// WrapConfig marks err as a configuration error, keeping its chain
func WrapConfig(err error, context string) error {
	return Wrap(crdb.Mark(err, ErrInvalidConfig), context)
}
