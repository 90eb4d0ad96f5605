package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, 24*time.Hour)
	return repo, mr
}

func sampleCart() *domain.Cart {
	cart := domain.NewCart("main-store")
	cart.Items = []domain.CartItem{
		{ID: "prod-1", Title: "Laptop", Price: 999, Quantity: 2, Image: "https://img.example.com/laptop.jpg"},
	}
	return cart
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart.Snapshot())
	require.NoError(t, err)

	// Set data directly in miniredis.
	require.NoError(t, mr.Set("cart:"+cart.StoreName, string(data)))

	got, err := repo.Get(context.Background(), cart.StoreName)
	require.NoError(t, err)
	assert.Equal(t, cart.StoreName, got.StoreName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-1", got.Items[0].ID)
	assert.Equal(t, "Laptop", got.Items[0].Title)
	assert.InDelta(t, 999, got.Items[0].Price, 1e-9)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	got, err := repo.Get(context.Background(), "nonexistent-store")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_InvalidJSON(t *testing.T) {
	repo, mr := setupTestRedis(t)

	// Set corrupted JSON data.
	require.NoError(t, mr.Set("cart:broken-store", "{{not-valid-json"))

	got, err := repo.Get(context.Background(), "broken-store")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal cart")
}

func TestCartRepository_Get_IgnoresStaleDerivedFields(t *testing.T) {
	repo, mr := setupTestRedis(t)

	// A snapshot whose stored totals disagree with its items.
	raw := `{"items":[{"id":"prod-1","title":"Laptop","price":999,"quantity":2}],"total_items":99,"total_price":1,"is_empty":true}`
	require.NoError(t, mr.Set("cart:main-store", raw))

	got, err := repo.Get(context.Background(), "main-store")
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalItems())
	assert.InDelta(t, 1998, got.TotalPrice(), 1e-9)
	assert.False(t, got.IsEmpty())
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestCartRepository_Save_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	// Verify key exists in Redis.
	assert.True(t, mr.Exists("cart:"+cart.StoreName))

	// Verify the snapshot shape, derived fields included.
	raw, err := mr.Get("cart:" + cart.StoreName)
	require.NoError(t, err)

	var stored domain.CartSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "prod-1", stored.Items[0].ID)
	assert.Equal(t, 2, stored.TotalItems)
	assert.InDelta(t, 1998, stored.TotalPrice, 1e-9)
	assert.False(t, stored.IsEmpty)
}

func TestCartRepository_Save_TTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	ttl := mr.TTL("cart:" + cart.StoreName)
	assert.True(t, ttl > 23*time.Hour, "expected TTL > 23h, got %v", ttl)
	assert.True(t, ttl <= 24*time.Hour, "expected TTL <= 24h, got %v", ttl)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCartRepository_Delete_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)
	assert.True(t, mr.Exists("cart:"+cart.StoreName))

	err = repo.Delete(context.Background(), cart.StoreName)
	require.NoError(t, err)

	// Verify key was removed.
	assert.False(t, mr.Exists("cart:"+cart.StoreName))
}

func TestCartRepository_Delete_NonExistent(t *testing.T) {
	repo, _ := setupTestRedis(t)

	// Deleting a key that doesn't exist should not return an error.
	err := repo.Delete(context.Background(), "nonexistent-store")
	assert.NoError(t, err)
}
