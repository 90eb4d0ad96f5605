// Package repository defines the persistence contract for carts.
package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// CartRepository abstracts cart persistence. Get returns apperrors.ErrNotFound
// when no cart has been saved for the store.
type CartRepository interface {
	Get(ctx context.Context, storeName string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, storeName string) error
}
