// Package errors provides the classified error primitives used across docnav.
//
// A ClassifiedError carries a category, a severity and a retry strategy next to
// the message and optional cause, plus a small context map for structured
// logging. Errors are created with the fluent builder:
//
//	err := errors.NavigationError("unresolved slug").
//		WithContext("slug", "stdlib/fetch").
//		WithContext("sidebar", "docs").
//		Build()
//
// The CLI adapter maps categories to process exit codes and the HTTP adapter
// maps them to status codes and a JSON payload.
package errors
