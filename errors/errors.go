// Package errors provides error handling for symreg.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// It also defines the registry's error taxonomy: sentinels for malformed
// qualified names and drained function groups, and a typed error for
// unsupported operator lookups.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := register(); err != nil {
//	    return errors.Wrap(err, "failed to register handler")
//	}
//
//	// Check errors
//	if errors.IsUnsupportedOperator(err) {
//	    // fall back or report
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"

	"github.com/teranos/symreg/opset"
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
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions and panics
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for the registry.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidName indicates a qualified name missing the
	// "domain::operator" separator
	ErrInvalidName = New("invalid qualified name")

	// ErrEmptyGroup indicates a function group with no registered versions.
	// Base registrations are permanent, so reaching this means the group
	// never had any.
	ErrEmptyGroup = New("no versions registered")
)

// IsInvalidNameError checks if an error is or wraps ErrInvalidName
func IsInvalidNameError(err error) bool {
	return err != nil && Is(err, ErrInvalidName)
}

// IsEmptyGroupError checks if an error is or wraps ErrEmptyGroup
func IsEmptyGroupError(err error) bool {
	return err != nil && Is(err, ErrEmptyGroup)
}

// UnsupportedOperatorError reports that no handler could be resolved for an
// operator at a requested version. MinSupported, when non-nil, is the lowest
// version the operator is registered for; nil means the operator is unknown
// to the registry.
type UnsupportedOperatorError struct {
	Name         string
	Version      opset.Version
	MinSupported *opset.Version
}

// Error implements the error interface.
func (e *UnsupportedOperatorError) Error() string {
	if e.MinSupported != nil {
		return fmt.Sprintf("operator %q is not supported at version %d (first registered at version %d)",
			e.Name, e.Version, *e.MinSupported)
	}
	return fmt.Sprintf("no symbolic function registered for operator %q at version %d",
		e.Name, e.Version)
}

// NewUnsupportedOperator creates an UnsupportedOperatorError. minSupported
// may be nil when the operator has no registrations at all. When support
// starts at a newer version than the one requested, the error carries a hint
// naming it.
func NewUnsupportedOperator(name string, version opset.Version, minSupported *opset.Version) error {
	err := error(&UnsupportedOperatorError{
		Name:         name,
		Version:      version,
		MinSupported: minSupported,
	})
	if minSupported != nil && *minSupported > version {
		err = WithHintf(err, "try exporting with version %d or newer", *minSupported)
	}
	return err
}

// IsUnsupportedOperatorError checks if an error is or wraps an
// UnsupportedOperatorError.
func IsUnsupportedOperatorError(err error) bool {
	if err == nil {
		return false
	}
	var unsupported *UnsupportedOperatorError
	return As(err, &unsupported)
}
