package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/search"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const recordsKey = "catalog:records"

// Cache keeps the last fetched product listing in Redis so a restart or an
// upstream outage can serve the previous snapshot.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a catalog cache with the given snapshot TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// GetRecords returns the cached listing, or apperrors.ErrNotFound when the
// cache is cold.
func (c *Cache) GetRecords(ctx context.Context) ([]search.Record, error) {
	data, err := c.client.Get(ctx, recordsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("catalog records", recordsKey)
		}
		return nil, fmt.Errorf("redis get catalog records: %w", err)
	}

	var records []search.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal catalog records: %w", err)
	}
	return records, nil
}

// SetRecords stores the listing with the configured TTL.
func (c *Cache) SetRecords(ctx context.Context, records []search.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal catalog records: %w", err)
	}

	if err := c.client.Set(ctx, recordsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog records: %w", err)
	}
	return nil
}
