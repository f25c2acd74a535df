// Package catalog holds the error taxonomy shared by the catalog engine.
// Subpackages wrap these sentinels so callers can classify failures with
// errors.Is regardless of which component raised them.
package catalog

import "errors"

var (
	// ErrNotFound covers missing and non-public stores, products, categories and links.
	ErrNotFound = errors.New("not found")
	// ErrValidation rejects invalid input before any mutation.
	ErrValidation = errors.New("validation failure")
	// ErrPersistence means a write could not be made durable.
	ErrPersistence = errors.New("persistence failure")
	// ErrConflict is returned for stale reorder submissions.
	ErrConflict = errors.New("stale collection version")
	// ErrForbidden means the caller's plan or role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrSuperseded marks an operation cancelled by a newer one for the same collection.
	ErrSuperseded = errors.New("superseded by a newer operation")
	// ErrDegraded flags a result served from a fallback source.
	ErrDegraded = errors.New("degraded")
)
