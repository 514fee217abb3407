// Package errors provides error handling for iris.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints attached to configuration errors
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Configuration problems carry the ErrInvalidConfig mark
//	return errors.NewConfigError("k=%d exceeds training size %d", k, n)
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
	Mark         = crdb.Mark
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
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors. Check with errors.Is(); the New*Error helpers below mark
// a descriptive error with one of these so the message stays readable.
var (
	// ErrInvalidConfig indicates a setting that cannot produce a valid run
	// (split ratio outside (0,1), k larger than the training set, ...)
	ErrInvalidConfig = New("invalid configuration")

	// ErrEnvironment indicates the runtime itself is broken, e.g. the bundled
	// dataset is missing or corrupt. Nothing can be computed.
	ErrEnvironment = New("environment error")

	// ErrInvalidRequest indicates a malformed call (mismatched lengths, wrong
	// feature count)
	ErrInvalidRequest = New("invalid request")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")
)

// IsConfigError checks if an error is or wraps ErrInvalidConfig
func IsConfigError(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// IsEnvironmentError checks if an error is or wraps ErrEnvironment
func IsEnvironmentError(err error) bool {
	return err != nil && Is(err, ErrEnvironment)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewConfigError creates a configuration error with a formatted message
func NewConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

// NewEnvironmentError creates an environment error with a formatted message
func NewEnvironmentError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrEnvironment)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// WrapEnvironment marks err as an environment error with context
func WrapEnvironment(err error, context string) error {
	return Mark(Wrap(err, context), ErrEnvironment)
}

// WrapInvalidRequest marks err as an invalid-request error with context
func WrapInvalidRequest(err error, context string) error {
	return Mark(Wrap(err, context), ErrInvalidRequest)
}
