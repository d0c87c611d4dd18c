// Package errors provides structured error types for the tape runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the token position of the offending instruction when one
// exists, a human-readable detail and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLink, errors.KindUnmatchedLeftBracket).
//		Position(12).
//		Detail("unmatched %q at %d", '[', 12).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnmatchedLeft(errors.PhaseLink, 12)
//	err := errors.OutOfBounds(errors.PhaseRuntime, 70000, 65535)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
