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

func setupTestRedis(t *testing.T) (*WishlistRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewWishlistRepository(client, 0)
	return repo, mr
}

func TestWishlistRepository_SaveAndGet(t *testing.T) {
	repo, mr := setupTestRedis(t)

	list := domain.NewWishlist("main-store")
	list.Items = []domain.WishlistItem{{ID: "prod-1", Title: "Laptop", Price: 999}}

	require.NoError(t, repo.Save(context.Background(), list))
	assert.True(t, mr.Exists("wishlist:main-store"))

	got, err := repo.Get(context.Background(), "main-store")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Laptop", got.Items[0].Title)
}

func TestWishlistRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	got, err := repo.Get(context.Background(), "nonexistent-store")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWishlistRepository_SnapshotShape(t *testing.T) {
	repo, mr := setupTestRedis(t)

	list := domain.NewWishlist("main-store")
	list.Items = []domain.WishlistItem{
		{ID: "prod-1", Title: "Laptop", Price: 999},
		{ID: "prod-2", Title: "Phone", Price: 599},
	}
	require.NoError(t, repo.Save(context.Background(), list))

	raw, err := mr.Get("wishlist:main-store")
	require.NoError(t, err)

	var stored domain.WishlistSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, 2, stored.TotalItems)
	assert.False(t, stored.IsEmpty)
	assert.WithinDuration(t, time.Now(), stored.UpdatedAt, time.Minute)
}

func TestWishlistRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)

	list := domain.NewWishlist("main-store")
	require.NoError(t, repo.Save(context.Background(), list))

	require.NoError(t, repo.Delete(context.Background(), "main-store"))
	assert.False(t, mr.Exists("wishlist:main-store"))
}
