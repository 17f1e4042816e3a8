// Package errors provides structured error types for the fsntfs binding.
//
// Errors are categorized by Op (which binding operation failed) and Kind
// (failure category). Native failures carry the diagnostic fetched from the
// library's error object: a category code plus a human-readable message. The
// message fetch is best effort; an error with an empty Message and a valid
// Code is still well formed.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpDerive, errors.KindNotFound).
//		Resource("file_entry").
//		Detail("no sub entry at index %d", idx).
//		Build()
//
// Or the convenience constructors for common patterns:
//
//	err := errors.UseAfterRelease("volume")
//	err := errors.Native(errors.OpOpen, code, msg)
//
// All errors implement the standard error interface; errors.Is matches on
// Kind, so callers can test against the exported Kind* sentinels.
package errors
