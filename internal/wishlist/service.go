// Package wishlist implements the business logic for the wishlist store:
// unique membership by product ID, toggle semantics, and the move-to-cart
// transition.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/wishlist/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// MaxItemsPerWishlist is the maximum number of saved items per store.
const MaxItemsPerWishlist = 200

// AddToCartFunc receives the moved item and the quantity to add (always 1).
// MoveToCart only removes the wishlist entry after the callback succeeds.
type AddToCartFunc func(ctx context.Context, item domain.WishlistItem, quantity int) error

// WishlistService implements the business logic for wishlist operations. All
// methods are scoped to a store name.
type WishlistService struct {
	repo     repository.WishlistRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetWishlist retrieves the wishlist for a store. If none exists, returns an
// empty wishlist.
func (s *WishlistService) GetWishlist(ctx context.Context, storeName string) (*domain.Wishlist, error) {
	if storeName == "" {
		return nil, apperrors.InvalidInput("store name is required")
	}

	list, err := s.repo.Get(ctx, storeName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewWishlist(storeName), nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	return list, nil
}

// AddItem saves an item to the wishlist. Adding an already-present ID is
// idempotent and does not persist.
func (s *WishlistService) AddItem(ctx context.Context, storeName string, item domain.WishlistItem) (*domain.Wishlist, error) {
	if item.ID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	list, err := s.GetWishlist(ctx, storeName)
	if err != nil {
		return nil, err
	}

	if list.FindItemIndex(item.ID) >= 0 {
		return list, nil
	}
	if len(list.Items) >= MaxItemsPerWishlist {
		return nil, apperrors.InvalidInput(fmt.Sprintf("wishlist must not contain more than %d items", MaxItemsPerWishlist))
	}

	list.Items = append(list.Items, item)

	if err := s.persist(ctx, list); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to wishlist",
		slog.String("store_name", storeName),
		slog.String("item_id", item.ID),
	)

	return list, nil
}

// RemoveItem removes an item from the wishlist. Removing an absent ID is a
// no-op.
func (s *WishlistService) RemoveItem(ctx context.Context, storeName, itemID string) (*domain.Wishlist, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	list, err := s.GetWishlist(ctx, storeName)
	if err != nil {
		return nil, err
	}

	i := list.FindItemIndex(itemID)
	if i < 0 {
		return list, nil
	}
	list.Items = append(list.Items[:i], list.Items[i+1:]...)

	if err := s.persist(ctx, list); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from wishlist",
		slog.String("store_name", storeName),
		slog.String("item_id", itemID),
	)

	return list, nil
}

// ToggleItem adds the item when absent and removes it when present. The
// returned flag reports whether the item was added; two toggles in a row
// return the wishlist to its original state.
func (s *WishlistService) ToggleItem(ctx context.Context, storeName string, item domain.WishlistItem) (*domain.Wishlist, bool, error) {
	if item.ID == "" {
		return nil, false, apperrors.InvalidInput("item id is required")
	}

	list, err := s.GetWishlist(ctx, storeName)
	if err != nil {
		return nil, false, err
	}

	added := false
	if i := list.FindItemIndex(item.ID); i >= 0 {
		list.Items = append(list.Items[:i], list.Items[i+1:]...)
	} else {
		list.Items = append(list.Items, item)
		added = true
	}

	if err := s.persist(ctx, list); err != nil {
		return nil, false, err
	}

	s.logger.InfoContext(ctx, "wishlist item toggled",
		slog.String("store_name", storeName),
		slog.String("item_id", item.ID),
		slog.Bool("added", added),
	)

	return list, added, nil
}

// IsItemInWishlist reports whether the item is saved.
func (s *WishlistService) IsItemInWishlist(ctx context.Context, storeName, itemID string) (bool, error) {
	list, err := s.GetWishlist(ctx, storeName)
	if err != nil {
		return false, err
	}
	return list.FindItemIndex(itemID) >= 0, nil
}

// ClearWishlist removes all saved items for a store.
func (s *WishlistService) ClearWishlist(ctx context.Context, storeName string) error {
	if storeName == "" {
		return apperrors.InvalidInput("store name is required")
	}

	if err := s.repo.Delete(ctx, storeName); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist cleared",
		slog.String("store_name", storeName),
	)

	return nil
}

// MoveToCart moves an item from the wishlist into the cart via the supplied
// callback, invoked exactly once with quantity 1. An absent ID leaves both
// stores untouched and returns nil without error; a callback failure leaves
// the item in the wishlist.
func (s *WishlistService) MoveToCart(ctx context.Context, storeName, itemID string, addToCart AddToCartFunc) (*domain.WishlistItem, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}
	if addToCart == nil {
		return nil, apperrors.InvalidInput("add-to-cart callback is required")
	}

	list, err := s.GetWishlist(ctx, storeName)
	if err != nil {
		return nil, err
	}

	i := list.FindItemIndex(itemID)
	if i < 0 {
		return nil, nil
	}
	item := list.Items[i]

	if err := addToCart(ctx, item, 1); err != nil {
		return nil, fmt.Errorf("move to cart: %w", err)
	}

	list.Items = append(list.Items[:i], list.Items[i+1:]...)
	if err := s.persist(ctx, list); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item moved to cart",
		slog.String("store_name", storeName),
		slog.String("item_id", itemID),
	)

	return &item, nil
}

// persist stamps the wishlist, saves its snapshot, and publishes the update
// event. Publish failures are logged, never surfaced.
func (s *WishlistService) persist(ctx context.Context, list *domain.Wishlist) error {
	list.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, list); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}

	if err := s.producer.PublishWishlistUpdated(ctx, list); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("store_name", list.StoreName),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
