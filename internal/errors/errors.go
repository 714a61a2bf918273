// Package errors provides a lightweight structured error type (NormError)
// for category-based classification in the CLI exit path.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a docnorm error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryUsage      ErrorCategory = "usage"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryGit      ErrorCategory = "git"
	CategoryExternal ErrorCategory = "external" // pandoc, mmdc, NATS

	// Processing errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryState      ErrorCategory = "state"
	CategoryInternal   ErrorCategory = "internal"
)

// NormError is a structured error with category and context.
type NormError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *NormError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap implements error unwrapping.
func (e *NormError) Unwrap() error { return e.Cause }

// New creates a NormError without a cause.
func New(category ErrorCategory, message string) *NormError {
	return &NormError{Category: category, Message: message}
}

// Newf creates a NormError with a formatted message.
func Newf(category ErrorCategory, format string, args ...any) *NormError {
	return &NormError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a category to an underlying error.
func Wrap(err error, category ErrorCategory, message string) *NormError {
	return &NormError{Category: category, Message: message, Cause: err}
}

// Wrapf attaches a category and a formatted message to an underlying error.
func Wrapf(err error, category ErrorCategory, format string, args ...any) *NormError {
	return &NormError{Category: category, Message: fmt.Sprintf(format, args...), Cause: err}
}

// CategoryOf extracts the category from an error chain, or CategoryInternal.
func CategoryOf(err error) ErrorCategory {
	var ne *NormError
	if errors.As(err, &ne) {
		return ne.Category
	}
	return CategoryInternal
}

// IsUsage reports whether err is an invalid-invocation error. Usage errors are
// reported before any processing occurs and map to a distinct exit code.
func IsUsage(err error) bool { return CategoryOf(err) == CategoryUsage }
