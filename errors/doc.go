// Package errors provides structured error types for the valuestore module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type and layout names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStream, errors.KindInvalidType).
//		Path("user", "age").
//		GoType("string").
//		Layout("u32").
//		Detail("cannot read string as integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateName(errors.PhaseLayout, path, "x")
//	err := errors.OutOfBounds(errors.PhaseValue, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a bare &Error{Phase, Kind} works as a
// sentinel.
package errors
