package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CatalogEntry is a catalog item decorated with its resolved price for
// storefront rendering.
type CatalogEntry struct {
	models.CatalogItem
	Quote           pricing.Quote `json:"quote"`
	DiscountPercent int           `json:"discount_percent,omitempty"`
}

// CatalogService serves catalog reads through a Redis cache with a database
// fallback.
type CatalogService struct {
	store    *store.Store
	redis    *redisclient.Client
	resolver *pricing.Resolver
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, redis *redisclient.Client, resolver *pricing.Resolver, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		store:    store,
		redis:    redis,
		resolver: resolver,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// ListCatalog returns the full catalog with resolved prices. Reads go through
// the cache; a cache failure falls back to the database rather than erroring.
func (cs *CatalogService) ListCatalog(ctx context.Context) ([]CatalogEntry, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListCatalog")
	defer span.End()

	var items []models.CatalogItem
	hit, err := cs.redis.GetCatalog(ctx, &items)
	if err != nil {
		cs.logger.Warn("Catalog cache read failed, falling back to DB", zap.Error(err))
	}
	if hit {
		util.CatalogCacheHits.WithLabelValues("hit").Inc()
		return cs.decorate(items), nil
	}
	util.CatalogCacheHits.WithLabelValues("miss").Inc()

	items, err = cs.store.GetCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := cs.redis.SetCatalog(ctx, items, cs.cacheTTL); err != nil {
		cs.logger.Warn("Failed to cache catalog", zap.Error(err))
	}

	return cs.decorate(items), nil
}

// VariantEntry is a variant decorated with its resolved price.
type VariantEntry struct {
	models.Variant
	Quote           pricing.Quote `json:"quote"`
	DiscountPercent int           `json:"discount_percent,omitempty"`
}

// ItemVariants returns the active variants of an item with resolved prices
func (cs *CatalogService) ItemVariants(ctx context.Context, itemID int64) ([]VariantEntry, error) {
	item, err := cs.store.GetCatalogItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	variants, err := cs.store.GetVariantsByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return cs.decorateVariants(item, variants), nil
}

// UpdateStock sets the stock count on a catalog item and drops the cached
// catalog so the next read reflects it.
func (cs *CatalogService) UpdateStock(ctx context.Context, itemID int64, stock int) error {
	if err := cs.store.UpdateStock(ctx, itemID, stock); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	if err := cs.redis.InvalidateCatalog(ctx); err != nil {
		cs.logger.Warn("Failed to invalidate catalog cache after stock update", zap.Error(err))
	}

	return nil
}

// InvalidateCache drops the cached catalog, forcing the next read to the DB
func (cs *CatalogService) InvalidateCache(ctx context.Context) error {
	return cs.redis.InvalidateCatalog(ctx)
}

func (cs *CatalogService) decorateVariants(item *models.CatalogItem, variants []models.Variant) []VariantEntry {
	entries := make([]VariantEntry, 0, len(variants))
	for i := range variants {
		quote := cs.resolver.Resolve(item, &variants[i])
		entry := VariantEntry{Variant: variants[i], Quote: quote}
		if quote.IsDiscounted {
			entry.DiscountPercent = pricing.DiscountPercent(quote.OriginalPrice, quote.UnitPrice)
		}
		entries = append(entries, entry)
	}
	return entries
}

func (cs *CatalogService) decorate(items []models.CatalogItem) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(items))
	for i := range items {
		quote := cs.resolver.Resolve(&items[i], nil)
		entry := CatalogEntry{CatalogItem: items[i], Quote: quote}
		if quote.IsDiscounted {
			entry.DiscountPercent = pricing.DiscountPercent(quote.OriginalPrice, quote.UnitPrice)
		}
		entries = append(entries, entry)
	}
	return entries
}
