package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetCatalogItemByID retrieves a catalog item by ID
func (s *Store) GetCatalogItemByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM catalog_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("catalog item not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCatalogItems retrieves the full catalog ordered by category and name
func (s *Store) GetCatalogItems(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM catalog_items ORDER BY category, name")
	return items, err
}

// GetCatalogItemsByIDs retrieves multiple catalog items by IDs
func (s *Store) GetCatalogItemsByIDs(ctx context.Context, ids []int64) ([]models.CatalogItem, error) {
	if len(ids) == 0 {
		return []models.CatalogItem{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM catalog_items WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.CatalogItem
	err = s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// GetVariantByID retrieves a variant by ID
func (s *Store) GetVariantByID(ctx context.Context, id int64) (*models.Variant, error) {
	var variant models.Variant
	err := s.db.GetContext(ctx, &variant, "SELECT * FROM variants WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("variant not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// GetVariantsByItemID retrieves the active variants of a catalog item
func (s *Store) GetVariantsByItemID(ctx context.Context, itemID int64) ([]models.Variant, error) {
	var variants []models.Variant
	err := s.db.SelectContext(ctx, &variants,
		"SELECT * FROM variants WHERE item_id = $1 AND active ORDER BY id", itemID)
	return variants, err
}

// UpdateStock sets the stock count for a catalog item
func (s *Store) UpdateStock(ctx context.Context, itemID int64, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock must be non-negative: %d", stock)
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE catalog_items SET stock = $1 WHERE id = $2", stock, itemID)
	return err
}
