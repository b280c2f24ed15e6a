package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pozmatch/backend/internal/domain"
)

// Fallback chains catalog store backends in priority order behind the
// plain CatalogStore interface. Reads fall back to the next backend on any
// failure; writes fall back only when a backend reports itself unavailable
// (domain.ErrStoreUnavailable), because a validation rejection from a live
// backend would fail everywhere.
type Fallback struct {
	backends []domain.CatalogStore
	names    []string
}

// NewFallback creates a fallback store over the given backends, tried in
// the order supplied. Names are used only for logging.
func NewFallback(backends []domain.CatalogStore, names []string) *Fallback {
	if len(backends) != len(names) {
		panic("store.NewFallback: backends and names length mismatch")
	}
	return &Fallback{backends: backends, names: names}
}

// ListItems returns the full catalog from the first backend that answers.
func (f *Fallback) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	var lastErr error
	for i, backend := range f.backends {
		items, err := backend.ListItems(ctx)
		if err == nil {
			if i > 0 {
				log.Printf("[STORE] catalog read served by fallback store %q", f.names[i])
			}
			return items, nil
		}
		log.Printf("[STORE] %q list failed: %v", f.names[i], err)
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, lastErr)
}

// UpsertItem writes one item through the fallback chain.
func (f *Fallback) UpsertItem(ctx context.Context, item domain.CatalogItem) error {
	return f.write(ctx, func(b domain.CatalogStore) error {
		return b.UpsertItem(ctx, item)
	})
}

// UpsertItems writes a batch through the fallback chain.
func (f *Fallback) UpsertItems(ctx context.Context, items []domain.CatalogItem) error {
	return f.write(ctx, func(b domain.CatalogStore) error {
		return b.UpsertItems(ctx, items)
	})
}

// DeleteItem deletes by code through the fallback chain.
func (f *Fallback) DeleteItem(ctx context.Context, code string) error {
	return f.write(ctx, func(b domain.CatalogStore) error {
		return b.DeleteItem(ctx, code)
	})
}

func (f *Fallback) write(ctx context.Context, op func(domain.CatalogStore) error) error {
	var lastErr error
	for i, backend := range f.backends {
		err := op(backend)
		if err == nil {
			if i > 0 {
				log.Printf("[STORE] catalog write served by fallback store %q", f.names[i])
			}
			return nil
		}
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		log.Printf("[STORE] %q write unavailable: %v", f.names[i], err)
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreWriteFailed, lastErr)
}
