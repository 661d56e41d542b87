// Package errors provides the classified error primitives used across dokumentor.
//
// Every failure that crosses a package boundary is a ClassifiedError carrying a
// category, a severity, a retry strategy and a small context map. Leaf packages
// keep their own typed errors (for example a malformed marker document) and wrap
// them with a ClassifiedError so callers can use both errors.As on the leaf type
// and category based routing in the CLI adapter.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "replace destination").
//		WithContext("path", destination).
//		Build()
package errors
