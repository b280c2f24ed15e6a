package domain

import "context"

// CatalogStore defines the interface for a catalog backend. Two
// implementations exist (remote API and local SQLite); the fallback policy
// composes them behind this same interface so callers never branch on which
// backend served a request.
type CatalogStore interface {
	// ListItems returns the full catalog ordered by code.
	ListItems(ctx context.Context) ([]CatalogItem, error)

	// UpsertItem inserts or replaces one item keyed by code.
	UpsertItem(ctx context.Context, item CatalogItem) error

	// UpsertItems inserts or replaces a batch keyed by code, last write wins.
	UpsertItems(ctx context.Context, items []CatalogItem) error

	// DeleteItem removes the item with the given code.
	DeleteItem(ctx context.Context, code string) error
}

// CatalogCache exposes the in-memory snapshot consumed by the matching path.
type CatalogCache interface {
	Reload(ctx context.Context) (int, error)
	Snapshot() []CatalogItem
}
