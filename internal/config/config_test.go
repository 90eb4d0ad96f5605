package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 168, cfg.CartTTL)
	assert.Equal(t, "storefront-cart", cfg.CartStoreName)
	assert.Equal(t, "storefront-wishlist", cfg.WishlistStoreName)
	assert.True(t, cfg.CartPersist)
	assert.Equal(t, time.Hour, cfg.CatalogCacheTTL)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_CollidingStoreNames(t *testing.T) {
	t.Setenv("CART_STORE_NAME", "shared")
	t.Setenv("WISHLIST_STORE_NAME", "shared")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store names must differ")
}

func TestLoad_CustomRedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.prod:6380")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "redis.prod:6380", cfg.RedisAddr)
}

func TestLoad_NegativeCartTTL(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "-1")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cart TTL")
}

func TestLoad_PersistenceToggles(t *testing.T) {
	t.Setenv("CART_PERSIST", "false")
	t.Setenv("WISHLIST_PERSIST", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.CartPersist)
	assert.False(t, cfg.WishlistPersist)
}
