package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/wishlist"
	"github.com/utafrali/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints. Moving an
// item to the cart goes through the cart service, so both stores stay in
// step.
type WishlistHandler struct {
	service       *wishlist.WishlistService
	cartService   *cart.CartService
	logger        *slog.Logger
	defaultStore  string
	cartStoreName string
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *wishlist.WishlistService, cartSvc *cart.CartService, defaultStore, cartStoreName string, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service:       svc,
		cartService:   cartSvc,
		logger:        logger,
		defaultStore:  defaultStore,
		cartStoreName: cartStoreName,
	}
}

// WishlistItemRequest is the JSON request body for adding or toggling an item.
type WishlistItemRequest struct {
	ID       string         `json:"id" validate:"required"`
	Title    string         `json:"title" validate:"max=500"`
	Price    float64        `json:"price" validate:"gte=0"`
	Image    string         `json:"image"`
	Metadata map[string]any `json:"metadata"`
}

func (req WishlistItemRequest) item() domain.WishlistItem {
	return domain.WishlistItem{
		ID:       req.ID,
		Title:    req.Title,
		Price:    req.Price,
		Image:    req.Image,
		Metadata: req.Metadata,
	}
}

// GetWishlist handles GET /api/v1/wishlist.
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	list, err := h.service.GetWishlist(r.Context(), store)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: list.Snapshot()})
}

// AddItem handles POST /api/v1/wishlist/items.
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req WishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	list, err := h.service.AddItem(r.Context(), store, req.item())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: list.Snapshot()})
}

// ToggleItem handles POST /api/v1/wishlist/toggle.
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req WishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	list, added, err := h.service.ToggleItem(r.Context(), store, req.item())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"added":    added,
		"wishlist": list.Snapshot(),
	}})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{id}.
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)
	itemID := chi.URLParam(r, "id")

	list, err := h.service.RemoveItem(r.Context(), store, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: list.Snapshot()})
}

// ClearWishlist handles DELETE /api/v1/wishlist.
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	if err := h.service.ClearWishlist(r.Context(), store); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}

// MoveToCart handles POST /api/v1/wishlist/items/{id}/move-to-cart. An
// absent item returns an empty result with both stores untouched.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)
	itemID := chi.URLParam(r, "id")

	moved, err := h.service.MoveToCart(r.Context(), store, itemID,
		func(ctx context.Context, item domain.WishlistItem, quantity int) error {
			_, err := h.cartService.AddItem(ctx, h.cartStoreName, cart.AddItemInput{
				ID:       item.ID,
				Title:    item.Title,
				Price:    item.Price,
				Quantity: quantity,
				Image:    item.Image,
				Metadata: item.Metadata,
			})
			return err
		})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"moved": moved != nil,
		"item":  moved,
	}})
}
