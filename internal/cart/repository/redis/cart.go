// Package redis provides the Redis-backed cart repository. Carts are stored
// as JSON snapshots under one key per store name.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository. A zero TTL
// persists carts without expiry.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart snapshot for a store from Redis.
func (r *CartRepository) Get(ctx context.Context, storeName string) (*domain.Cart, error) {
	key := keyPrefix + storeName

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", storeName)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return domain.CartFromSnapshot(storeName, snap), nil
}

// Save persists the cart's snapshot to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := keyPrefix + cart.StoreName

	data, err := json.Marshal(cart.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the cart for a store from Redis.
func (r *CartRepository) Delete(ctx context.Context, storeName string) error {
	key := keyPrefix + storeName

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
