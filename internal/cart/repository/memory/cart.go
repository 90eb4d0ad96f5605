// Package memory provides an in-process cart repository for stores that run
// with persistence disabled.
package memory

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CartRepository implements repository.CartRepository over a mutex-guarded
// map of snapshots keyed by store name.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.CartSnapshot
}

// NewCartRepository creates an empty in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[string]domain.CartSnapshot),
	}
}

// Get retrieves the cart for a store.
func (r *CartRepository) Get(_ context.Context, storeName string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.carts[storeName]
	if !ok {
		return nil, apperrors.NotFound("cart", storeName)
	}
	return domain.CartFromSnapshot(storeName, snap), nil
}

// Save stores the cart's snapshot.
func (r *CartRepository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.StoreName] = cart.Snapshot()
	return nil
}

// Delete removes the cart for a store.
func (r *CartRepository) Delete(_ context.Context, storeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, storeName)
	return nil
}
