// Package errors provides the structured error type used across the module.
// Every failure that ends a run carries a machine-readable code, a message
// for operators, optional details and the underlying cause.
package errors
