package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pozmatch/backend/internal/domain"
)

// AdminService owns catalog mutations. Every successful write goes through
// the store fallback chain and then reloads the cache before returning, so
// callers never observe stale prices after an admin write.
type AdminService struct {
	store domain.CatalogStore
	cache domain.CatalogCache
}

// NewAdminService creates a new catalog admin service
func NewAdminService(store domain.CatalogStore, cache domain.CatalogCache) *AdminService {
	return &AdminService{
		store: store,
		cache: cache,
	}
}

// UpsertItem inserts or replaces one catalog item keyed by code.
func (s *AdminService) UpsertItem(ctx context.Context, item domain.CatalogItem) error {
	if !validItem(item) {
		return domain.ErrInvalidInput
	}

	if err := s.store.UpsertItem(ctx, item); err != nil {
		return err
	}

	return s.refreshCache(ctx)
}

// BulkUpsert applies a batch of items keyed by code, last write wins.
// Rows without a code or description are skipped, not rejected; the
// returned count is the number of rows actually written.
func (s *AdminService) BulkUpsert(ctx context.Context, items []domain.CatalogItem) (int, error) {
	if len(items) == 0 {
		return 0, domain.ErrInvalidInput
	}

	valid := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if validItem(item) {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return 0, domain.ErrInvalidInput
	}

	if err := s.store.UpsertItems(ctx, valid); err != nil {
		return 0, err
	}

	log.Printf("[ADMIN] bulk upsert applied %d of %d rows", len(valid), len(items))

	if err := s.refreshCache(ctx); err != nil {
		return len(valid), err
	}
	return len(valid), nil
}

// DeleteItem removes the catalog item with the given code.
func (s *AdminService) DeleteItem(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return domain.ErrInvalidInput
	}

	if err := s.store.DeleteItem(ctx, code); err != nil {
		return err
	}

	return s.refreshCache(ctx)
}

// refreshCache reloads the snapshot after a write; a reload failure is
// surfaced because the write is not complete until readers can see it.
func (s *AdminService) refreshCache(ctx context.Context) error {
	if _, err := s.cache.Reload(ctx); err != nil {
		return fmt.Errorf("catalog changed but cache reload failed: %w", err)
	}
	return nil
}

func validItem(item domain.CatalogItem) bool {
	return strings.TrimSpace(item.Code) != "" && strings.TrimSpace(item.Description) != ""
}
