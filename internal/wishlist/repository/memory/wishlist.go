// Package memory provides an in-process wishlist repository for stores that
// run with persistence disabled.
package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository over a
// mutex-guarded map of snapshots keyed by store name.
type WishlistRepository struct {
	mu    sync.RWMutex
	lists map[string]domain.WishlistSnapshot
}

// NewWishlistRepository creates an empty in-memory wishlist repository.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{
		lists: make(map[string]domain.WishlistSnapshot),
	}
}

// Get retrieves the wishlist for a store.
func (r *WishlistRepository) Get(_ context.Context, storeName string) (*domain.Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.lists[storeName]
	if !ok {
		return nil, apperrors.NotFound("wishlist", storeName)
	}
	return domain.WishlistFromSnapshot(storeName, snap), nil
}

// Save stores the wishlist's snapshot.
func (r *WishlistRepository) Save(_ context.Context, list *domain.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists[list.StoreName] = list.Snapshot()
	return nil
}

// Delete removes the wishlist for a store.
func (r *WishlistRepository) Delete(_ context.Context, storeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lists, storeName)
	return nil
}
