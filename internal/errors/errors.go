// Package errors provides centralized error handling for taskcycle.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// Construction-time failures belong to the configuration class: every such
// sentinel wraps ErrConfiguration, so callers may test either the specific
// sentinel or the class as a whole.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the class of fatal errors raised while building a
// catalog, a sequence or an engine. Steady-state iteration never returns it.
var ErrConfiguration = errors.New("configuration error")

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrEmptyCategorySet indicates an engine was configured with no categories.
	ErrEmptyCategorySet = fmt.Errorf("%w: empty category set", ErrConfiguration)

	// ErrUnknownCategory indicates a category is referenced that has no records
	// in the catalog.
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrConfiguration)

	// ErrInvalidAxis indicates an invalid axis size or start position.
	ErrInvalidAxis = fmt.Errorf("%w: invalid axis size/start", ErrConfiguration)

	// ErrInvalidRecord indicates a task record failed validation.
	ErrInvalidRecord = fmt.Errorf("%w: invalid task record", ErrConfiguration)

	// ErrDuplicateTaskID indicates two task records share the same id.
	ErrDuplicateTaskID = fmt.Errorf("%w: duplicate task id", ErrConfiguration)

	// ErrCatalogNotFound indicates the catalog file does not exist.
	ErrCatalogNotFound = fmt.Errorf("%w: catalog file not found", ErrConfiguration)

	// ErrCatalogParse indicates the catalog file has invalid YAML/JSON syntax.
	ErrCatalogParse = fmt.Errorf("%w: catalog parse error", ErrConfiguration)

	// ErrUnsupportedFormat indicates a catalog file format that cannot be decoded.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported catalog format", ErrConfiguration)

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = fmt.Errorf("%w: config is nil", ErrConfiguration)

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = fmt.Errorf("%w: invalid configuration value", ErrConfiguration)
)

// Errors that are not part of the configuration class.
var (
	// ErrInternalConsistency indicates a generated sequence failed its own
	// postcondition check. It is unreachable for a correct construction.
	ErrInternalConsistency = errors.New("internal consistency check failed")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
)

// IsConfiguration reports whether err belongs to the configuration class.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
