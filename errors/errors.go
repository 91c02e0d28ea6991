// Package errors provides error handling for tempex.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
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
//	// Check errors
//	if errors.Is(err, errors.ErrAnnotation) {
//	    // skip document, keep the batch going
//	}
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
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions and panics
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Pipeline sentinel errors. Use these with errors.Is() for type-safe error
// checking, and errors.Wrap() to add context while preserving the type.
//
// The propagation policy across a batch run:
//
//   - ErrAnnotation is recoverable per document: the affected document is
//     skipped and the batch continues.
//   - ErrFeatureSchema and ErrInvalidLabelSequence are systemic: the models
//     and features are not self-consistent, so the whole run aborts.
var (
	// ErrAnnotation indicates the external linguistic annotator was
	// unreachable, failed, or timed out for one document.
	ErrAnnotation = New("annotation failed")

	// ErrFeatureSchema indicates the feature set seen at inference time does
	// not match the feature set the model was trained with.
	ErrFeatureSchema = New("feature schema mismatch")

	// ErrInvalidLabelSequence indicates a decoder emitted a structurally
	// invalid BIO sequence (an I- label without a compatible B-/I- before it).
	ErrInvalidLabelSequence = New("invalid label sequence")

	// ErrModelNotFound indicates no trained model exists at the configured path.
	ErrModelNotFound = New("model not found")
)

// IsAnnotationError checks if an error is or wraps ErrAnnotation.
func IsAnnotationError(err error) bool {
	return err != nil && Is(err, ErrAnnotation)
}

// IsFatal reports whether an error is systemic and must abort the whole run
// rather than just the document that produced it.
func IsFatal(err error) bool {
	return err != nil && IsAny(err, ErrFeatureSchema, ErrInvalidLabelSequence)
}

// WrapAnnotation wraps an annotator failure so callers can detect it with
// IsAnnotationError while keeping the underlying cause in the chain.
func WrapAnnotation(err error, context string) error {
	return Wrap(Wrap(ErrAnnotation, err.Error()), context)
}

// NewFeatureSchemaError creates a feature-schema error with a formatted message.
func NewFeatureSchemaError(format string, args ...interface{}) error {
	return Wrap(ErrFeatureSchema, Newf(format, args...).Error())
}

// NewInvalidLabelSequenceError creates a label-sequence error with a formatted message.
func NewInvalidLabelSequenceError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidLabelSequence, Newf(format, args...).Error())
}
