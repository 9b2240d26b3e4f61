package documents

import "errors"

var (
	// ErrNotFound is returned when a referenced document cannot be located
	// in the tier its ref names.
	ErrNotFound = errors.New("document not found")

	// ErrStoreFailed is returned when both the primary and the fallback
	// tier rejected a write. It is a hard failure; callers must abort.
	ErrStoreFailed = errors.New("document store failed on all tiers")
)
