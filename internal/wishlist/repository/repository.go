// Package repository defines the persistence contract for wishlists.
package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// WishlistRepository abstracts wishlist persistence. Get returns
// apperrors.ErrNotFound when no wishlist has been saved for the store.
type WishlistRepository interface {
	Get(ctx context.Context, storeName string) (*domain.Wishlist, error)
	Save(ctx context.Context, list *domain.Wishlist) error
	Delete(ctx context.Context, storeName string) error
}
