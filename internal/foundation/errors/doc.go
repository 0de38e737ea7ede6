// Package errors provides the classified error primitives used across codebook.
//
// Key features:
//   - ErrorCategory: broad error classification (file_access, external_tool, config, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity, and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and presentation for the CLI
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileAccess, "read head template").
//		WithContext("path", headPath).
//		Build()
package errors
