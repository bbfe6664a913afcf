package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidID    = errors.New("invalid item id")
	ErrInvalidName  = errors.New("name must not be empty")
	ErrInvalidEmail = errors.New("email must be valid")

	// Bulk processing failure classes. A missing item is not a failure and
	// never surfaces as one of these.
	ErrProcessingCancelled = errors.New("processing interrupted or cancelled")
	ErrPersistence         = errors.New("persistence failure")
	ErrPoolStopped         = errors.New("worker pool is stopped")
)
