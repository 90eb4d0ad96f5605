// Package cart implements the business logic for the cart store: merge-by-id
// adds, quantity updates, bulk operations, derived queries, and snapshot
// persistence through a repository.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/cart/repository"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed.
	MaxItemsPerCart = 50
)

// AddItemInput holds the parameters for adding an item to the cart. Fields
// left empty are filled from the store-level default item.
type AddItemInput struct {
	ID       string         `json:"id" validate:"required"`
	Title    string         `json:"title"`
	Price    float64        `json:"price" validate:"gte=0"`
	Quantity int            `json:"quantity"`
	Image    string         `json:"image"`
	Metadata map[string]any `json:"metadata"`
}

// QuantityUpdate pairs an item ID with its new quantity for bulk updates.
type QuantityUpdate struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// Summary is the derived at-a-glance view of a cart.
type Summary struct {
	StoreName   string  `json:"store_name"`
	UniqueItems int     `json:"unique_items"`
	TotalItems  int     `json:"total_items"`
	TotalPrice  float64 `json:"total_price"`
	IsEmpty     bool    `json:"is_empty"`
}

// CartService implements the business logic for cart operations. All methods
// are scoped to a store name, so independent stores never collide.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
	defaults domain.CartItem
}

// NewCartService creates a new cart service. The defaults item supplies
// store-level fallback fields merged into every added item.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger, defaults domain.CartItem) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		defaults: defaults,
	}
}

// GetCart retrieves the cart for a store. If no cart exists, returns an
// empty cart.
func (s *CartService) GetCart(ctx context.Context, storeName string) (*domain.Cart, error) {
	if storeName == "" {
		return nil, apperrors.InvalidInput("store name is required")
	}

	cart, err := s.repo.Get(ctx, storeName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(storeName), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds an item to the store's cart. An existing line with the same ID
// absorbs the quantity as a delta; a delta that drops the line to zero or
// below removes it. A new line requires a positive quantity.
func (s *CartService) AddItem(ctx context.Context, storeName string, input AddItemInput) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	if err := s.addToCart(cart, input); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("store_name", storeName),
		slog.String("item_id", input.ID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// AddMultipleItems adds several items in one operation: one snapshot read,
// one persist. The whole batch is rejected if any single item is invalid.
func (s *CartService) AddMultipleItems(ctx context.Context, storeName string, inputs []AddItemInput) (*domain.Cart, error) {
	if len(inputs) == 0 {
		return nil, apperrors.InvalidInput("at least one item is required")
	}

	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	for _, input := range inputs {
		if err := s.addToCart(cart, input); err != nil {
			return nil, err
		}
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "items added to cart",
		slog.String("store_name", storeName),
		slog.Int("count", len(inputs)),
	)

	return cart, nil
}

// UpdateItemQuantity sets the exact quantity of a line. A non-positive
// quantity removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, storeName, itemID string, quantity int) (*domain.Cart, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(itemID)
	if i < 0 {
		return nil, apperrors.NotFound("cart item", itemID)
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = quantity
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("store_name", storeName),
		slog.String("item_id", itemID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// UpdateMultipleQuantities applies several quantity updates in one
// operation: one snapshot read, one persist. Unknown IDs fail the batch.
func (s *CartService) UpdateMultipleQuantities(ctx context.Context, storeName string, updates []QuantityUpdate) (*domain.Cart, error) {
	if len(updates) == 0 {
		return nil, apperrors.InvalidInput("at least one update is required")
	}

	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	for _, u := range updates {
		i := cart.FindItemIndex(u.ID)
		if i < 0 {
			return nil, apperrors.NotFound("cart item", u.ID)
		}
		if u.Quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = u.Quantity
		}
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart quantities updated",
		slog.String("store_name", storeName),
		slog.Int("count", len(updates)),
	)

	return cart, nil
}

// IncrementItem raises a line's quantity by the given amount (minimum 1).
func (s *CartService) IncrementItem(ctx context.Context, storeName, itemID string, by int) (*domain.Cart, error) {
	if by <= 0 {
		by = 1
	}
	return s.adjustQuantity(ctx, storeName, itemID, by)
}

// DecrementItem lowers a line's quantity by the given amount (minimum 1).
// Reaching zero or below removes the line entirely.
func (s *CartService) DecrementItem(ctx context.Context, storeName, itemID string, by int) (*domain.Cart, error) {
	if by <= 0 {
		by = 1
	}
	return s.adjustQuantity(ctx, storeName, itemID, -by)
}

// RemoveItem removes a line from the cart. Removing an absent ID is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, storeName, itemID string) (*domain.Cart, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(itemID)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("store_name", storeName),
		slog.String("item_id", itemID),
	)

	return cart, nil
}

// RemoveMultipleItems removes several lines in one operation. Absent IDs are
// skipped; one persist covers the batch.
func (s *CartService) RemoveMultipleItems(ctx context.Context, storeName string, itemIDs []string) (*domain.Cart, error) {
	if len(itemIDs) == 0 {
		return nil, apperrors.InvalidInput("at least one item id is required")
	}

	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	for _, id := range itemIDs {
		if i := cart.FindItemIndex(id); i >= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "items removed from cart",
		slog.String("store_name", storeName),
		slog.Int("count", len(itemIDs)),
	)

	return cart, nil
}

// ClearCart removes all items from the store's cart.
func (s *CartService) ClearCart(ctx context.Context, storeName string) error {
	if storeName == "" {
		return apperrors.InvalidInput("store name is required")
	}

	if err := s.repo.Delete(ctx, storeName); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, storeName); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("store_name", storeName),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("store_name", storeName),
	)

	return nil
}

// GetCartItem returns the line with the given ID.
func (s *CartService) GetCartItem(ctx context.Context, storeName, itemID string) (*domain.CartItem, error) {
	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(itemID)
	if i < 0 {
		return nil, apperrors.NotFound("cart item", itemID)
	}

	item := cart.Items[i]
	return &item, nil
}

// GetItemQuantity returns the quantity of a line, zero when absent.
func (s *CartService) GetItemQuantity(ctx context.Context, storeName, itemID string) (int, error) {
	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return 0, err
	}

	if i := cart.FindItemIndex(itemID); i >= 0 {
		return cart.Items[i].Quantity, nil
	}
	return 0, nil
}

// IsItemInCart reports whether a line with the given ID exists.
func (s *CartService) IsItemInCart(ctx context.Context, storeName, itemID string) (bool, error) {
	qty, err := s.GetItemQuantity(ctx, storeName, itemID)
	if err != nil {
		return false, err
	}
	return qty > 0, nil
}

// HasMinimumQuantity reports whether a line exists with at least the given
// quantity.
func (s *CartService) HasMinimumQuantity(ctx context.Context, storeName, itemID string, min int) (bool, error) {
	qty, err := s.GetItemQuantity(ctx, storeName, itemID)
	if err != nil {
		return false, err
	}
	return qty >= min, nil
}

// GetCartSummary returns the derived totals for the store's cart.
func (s *CartService) GetCartSummary(ctx context.Context, storeName string) (*Summary, error) {
	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	return &Summary{
		StoreName:   storeName,
		UniqueItems: len(cart.Items),
		TotalItems:  cart.TotalItems(),
		TotalPrice:  cart.TotalPrice(),
		IsEmpty:     cart.IsEmpty(),
	}, nil
}

// GetFilteredItems returns the lines satisfying the predicate, in cart order.
func (s *CartService) GetFilteredItems(ctx context.Context, storeName string, keep func(domain.CartItem) bool) ([]domain.CartItem, error) {
	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// CalculateSubtotal sums the line totals of the given IDs. Absent IDs
// contribute nothing.
func (s *CartService) CalculateSubtotal(ctx context.Context, storeName string, itemIDs []string) (float64, error) {
	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}

	var subtotal float64
	for _, item := range cart.Items {
		if _, ok := wanted[item.ID]; ok {
			subtotal += item.LineTotal()
		}
	}
	return subtotal, nil
}

// addToCart validates the input, merges the store defaults, and applies the
// add to the in-memory cart.
func (s *CartService) addToCart(cart *domain.Cart, input AddItemInput) error {
	if input.ID == "" {
		return apperrors.InvalidInput("item id is required")
	}
	if input.Price < 0 {
		return apperrors.InvalidInput("price must not be negative")
	}
	if input.Quantity > MaxQuantityPerItem {
		return apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if i := cart.FindItemIndex(input.ID); i >= 0 {
		newQty := cart.Items[i].Quantity + quantity
		if newQty > MaxQuantityPerItem {
			return apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
		}
		if newQty <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
		cart.Items[i].Quantity = newQty
		return nil
	}

	if quantity <= 0 {
		return apperrors.InvalidInput("quantity must be greater than 0")
	}
	if len(cart.Items) >= MaxItemsPerCart {
		return apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	cart.Items = append(cart.Items, s.withDefaults(input, quantity))
	return nil
}

// withDefaults builds a line from the input, falling back to the store-level
// default item for fields left empty.
func (s *CartService) withDefaults(input AddItemInput, quantity int) domain.CartItem {
	item := domain.CartItem{
		ID:       input.ID,
		Title:    input.Title,
		Price:    input.Price,
		Quantity: quantity,
		Image:    input.Image,
		Metadata: input.Metadata,
	}
	if item.Title == "" {
		item.Title = s.defaults.Title
	}
	if item.Price == 0 && s.defaults.Price > 0 {
		item.Price = s.defaults.Price
	}
	if item.Image == "" {
		item.Image = s.defaults.Image
	}
	if item.Metadata == nil && s.defaults.Metadata != nil {
		item.Metadata = make(map[string]any, len(s.defaults.Metadata))
		for k, v := range s.defaults.Metadata {
			item.Metadata[k] = v
		}
	}
	return item
}

// adjustQuantity applies a signed delta to an existing line. Dropping to
// zero or below removes the line.
func (s *CartService) adjustQuantity(ctx context.Context, storeName, itemID string, delta int) (*domain.Cart, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("item id is required")
	}

	cart, err := s.GetCart(ctx, storeName)
	if err != nil {
		return nil, err
	}

	i := cart.FindItemIndex(itemID)
	if i < 0 {
		return nil, apperrors.NotFound("cart item", itemID)
	}

	newQty := cart.Items[i].Quantity + delta
	switch {
	case newQty <= 0:
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	case newQty > MaxQuantityPerItem:
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	default:
		cart.Items[i].Quantity = newQty
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart item quantity adjusted",
		slog.String("store_name", storeName),
		slog.String("item_id", itemID),
		slog.Int("delta", delta),
	)

	return cart, nil
}

// persist stamps the cart, saves its snapshot, and publishes the update
// event. Publish failures are logged, never surfaced.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("store_name", cart.StoreName),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
