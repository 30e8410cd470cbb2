package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	catalogKey      = "catalog:items"
	dashboardPrefix = "dashboard:"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCatalog reads the cached catalog into dest. Returns false on a miss.
func (c *Client) GetCatalog(ctx context.Context, dest interface{}) (bool, error) {
	return c.getJSON(ctx, catalogKey, dest)
}

// SetCatalog caches the catalog with a TTL
func (c *Client) SetCatalog(ctx context.Context, catalog interface{}, ttl time.Duration) error {
	return c.setJSON(ctx, catalogKey, catalog, ttl)
}

// InvalidateCatalog drops the cached catalog
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

// GetDashboard reads the cached dashboard snapshot for a window key.
// Returns false on a miss.
func (c *Client) GetDashboard(ctx context.Context, windowKey string, dest interface{}) (bool, error) {
	return c.getJSON(ctx, dashboardPrefix+windowKey, dest)
}

// SetDashboard caches a dashboard snapshot for a window key
func (c *Client) SetDashboard(ctx context.Context, windowKey string, snapshot interface{}, ttl time.Duration) error {
	return c.setJSON(ctx, dashboardPrefix+windowKey, snapshot, ttl)
}

// InvalidateDashboards drops every cached dashboard snapshot. Called when an
// order event arrives so the next dashboard read re-aggregates.
func (c *Client) InvalidateDashboards(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, dashboardPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Client) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value for %s: %w", key, err)
	}
	return true, nil
}

func (c *Client) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}
