// Package redis provides the Redis-backed wishlist repository. Wishlists are
// stored as JSON snapshots under one key per store name, so a cart and a
// wishlist with the same store name never collide.
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

const keyPrefix = "wishlist:"

// WishlistRepository implements repository.WishlistRepository using Redis.
type WishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWishlistRepository creates a new Redis-backed wishlist repository. A
// zero TTL persists wishlists without expiry.
func NewWishlistRepository(client *redis.Client, ttl time.Duration) *WishlistRepository {
	return &WishlistRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the wishlist snapshot for a store from Redis.
func (r *WishlistRepository) Get(ctx context.Context, storeName string) (*domain.Wishlist, error) {
	key := keyPrefix + storeName

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("wishlist", storeName)
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var snap domain.WishlistSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}

	return domain.WishlistFromSnapshot(storeName, snap), nil
}

// Save persists the wishlist's snapshot to Redis with the configured TTL.
func (r *WishlistRepository) Save(ctx context.Context, list *domain.Wishlist) error {
	key := keyPrefix + list.StoreName

	data, err := json.Marshal(list.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}

	return nil
}

// Delete removes the wishlist for a store from Redis.
func (r *WishlistRepository) Delete(ctx context.Context, storeName string) error {
	key := keyPrefix + storeName

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}

	return nil
}
