package domain

import "errors"

var (
	// ErrInvalidInput is returned when request data is empty or malformed
	ErrInvalidInput = errors.New("invalid input data")

	// ErrEmptyCatalog is returned when no catalog items could be loaded for matching
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrCatalogUnavailable is returned when both catalog stores fail a read
	ErrCatalogUnavailable = errors.New("catalog unavailable from all stores")

	// ErrStoreWriteFailed is returned when both catalog stores reject a write
	ErrStoreWriteFailed = errors.New("catalog write rejected by all stores")

	// ErrStoreUnavailable marks a backend as unreachable; the fallback policy
	// recognizes it and retries the next store in order
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrItemNotFound is returned when a catalog code does not exist
	ErrItemNotFound = errors.New("catalog item not found")
)
