package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/pozmatch/backend/internal/domain"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS poz_items (
	code        TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	unit        TEXT DEFAULT '',
	unit_price  REAL DEFAULT 0
)`

// SQLiteStore is the secondary catalog backend: a local SQLite file that
// keeps matching available when the remote API is unreachable. Connection
// and driver failures are wrapped in domain.ErrStoreUnavailable for the
// fallback policy.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the catalog database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	log.Printf("[STORE] sqlite catalog opened at %s", path)
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListItems returns the full catalog ordered by code.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, description, unit, unit_price FROM poz_items ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite list: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.Code, &item.Description, &item.Unit, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("%w: sqlite scan: %v", domain.ErrStoreUnavailable, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: sqlite rows: %v", domain.ErrStoreUnavailable, err)
	}

	return items, nil
}

// UpsertItem inserts or replaces one item keyed by code.
func (s *SQLiteStore) UpsertItem(ctx context.Context, item domain.CatalogItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poz_items (code, description, unit, unit_price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			description = excluded.description,
			unit        = excluded.unit,
			unit_price  = excluded.unit_price`,
		item.Code, item.Description, item.Unit, item.UnitPrice)
	if err != nil {
		return fmt.Errorf("%w: sqlite upsert: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// UpsertItems applies a batch inside one transaction, last write wins.
func (s *SQLiteStore) UpsertItems(ctx context.Context, items []domain.CatalogItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: sqlite begin: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO poz_items (code, description, unit, unit_price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			description = excluded.description,
			unit        = excluded.unit,
			unit_price  = excluded.unit_price`)
	if err != nil {
		return fmt.Errorf("%w: sqlite prepare: %v", domain.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.Code, item.Description, item.Unit, item.UnitPrice); err != nil {
			return fmt.Errorf("%w: sqlite upsert %s: %v", domain.ErrStoreUnavailable, item.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: sqlite commit: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteItem removes the item with the given code.
func (s *SQLiteStore) DeleteItem(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poz_items WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("%w: sqlite delete: %v", domain.ErrStoreUnavailable, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
