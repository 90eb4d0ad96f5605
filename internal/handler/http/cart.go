package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/cart/pricing"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service      *cart.CartService
	logger       *slog.Logger
	defaultStore string
}

// NewCartHandler creates a new cart HTTP handler. defaultStore is used when
// a request carries no X-Store-Name header.
func NewCartHandler(svc *cart.CartService, defaultStore string, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service:      svc,
		logger:       logger,
		defaultStore: defaultStore,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ID       string         `json:"id" validate:"required"`
	Title    string         `json:"title" validate:"max=500"`
	Price    float64        `json:"price" validate:"gte=0"`
	Quantity int            `json:"quantity"`
	Image    string         `json:"image"`
	Metadata map[string]any `json:"metadata"`
}

func (req AddItemRequest) input() cart.AddItemInput {
	return cart.AddItemInput{
		ID:       req.ID,
		Title:    req.Title,
		Price:    req.Price,
		Quantity: req.Quantity,
		Image:    req.Image,
		Metadata: req.Metadata,
	}
}

// AddItemsRequest is the JSON request body for the bulk add endpoint.
type AddItemsRequest struct {
	Items []AddItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuantityRequest is the JSON request body for updating a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// UpdateQuantitiesRequest is the JSON request body for the bulk update endpoint.
type UpdateQuantitiesRequest struct {
	Updates []cart.QuantityUpdate `json:"updates" validate:"required,min=1,dive"`
}

// RemoveItemsRequest is the JSON request body for the bulk remove endpoint.
type RemoveItemsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// TotalsRequest is the JSON request body for the totals endpoint.
type TotalsRequest struct {
	TaxRate      float64 `json:"tax_rate" validate:"gte=0"`
	DiscountRate float64 `json:"discount_rate" validate:"gte=0,lte=1"`
	ShippingCost float64 `json:"shipping_cost" validate:"gte=0"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	c, err := h.service.GetCart(r.Context(), store)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.AddItem(r.Context(), store, req.input())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// AddItems handles POST /api/v1/cart/items/bulk.
func (h *CartHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req AddItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	inputs := make([]cart.AddItemInput, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = item.input()
	}

	c, err := h.service.AddMultipleItems(r.Context(), store, inputs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{id}.
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)
	itemID := chi.URLParam(r, "id")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.UpdateItemQuantity(r.Context(), store, itemID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// UpdateQuantities handles PUT /api/v1/cart/items.
func (h *CartHandler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req UpdateQuantitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.UpdateMultipleQuantities(r.Context(), store, req.Updates)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// IncrementItem handles POST /api/v1/cart/items/{id}/increment.
func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)
	itemID := chi.URLParam(r, "id")

	c, err := h.service.IncrementItem(r.Context(), store, itemID, 1)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// DecrementItem handles POST /api/v1/cart/items/{id}/decrement.
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)
	itemID := chi.URLParam(r, "id")

	c, err := h.service.DecrementItem(r.Context(), store, itemID, 1)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)
	itemID := chi.URLParam(r, "id")

	c, err := h.service.RemoveItem(r.Context(), store, itemID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// RemoveItems handles DELETE /api/v1/cart/items.
func (h *CartHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req RemoveItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.RemoveMultipleItems(r.Context(), store, req.IDs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: c.Snapshot()})
}

// ClearCart handles DELETE /api/v1/cart.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	if err := h.service.ClearCart(r.Context(), store); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}

// GetSummary handles GET /api/v1/cart/summary.
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	summary, err := h.service.GetCartSummary(r.Context(), store)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: summary})
}

// GetTotals handles POST /api/v1/cart/totals: cart totals with the supplied
// tax/discount/shipping rates applied.
func (h *CartHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	var req TotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.GetCart(r.Context(), store)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	totals := pricing.Calculate(c.Items, pricing.Rates{
		TaxRate:      req.TaxRate,
		DiscountRate: req.DiscountRate,
		ShippingCost: req.ShippingCost,
	})

	writeJSON(w, http.StatusOK, response{Data: totals})
}

// ValidateCart handles GET /api/v1/cart/validate.
func (h *CartHandler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	c, err := h.service.GetCart(r.Context(), store)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pricing.ValidateCart(c)})
}

// ExportCart handles GET /api/v1/cart/export?format=json|csv|xml.
func (h *CartHandler) ExportCart(w http.ResponseWriter, r *http.Request) {
	store := storeName(r, h.defaultStore)

	c, err := h.service.GetCart(r.Context(), store)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		data, err := pricing.ExportJSON(c.Items)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="cart.csv"`)
		_, _ = w.Write([]byte(pricing.ExportCSV(c.Items)))
	case "xml":
		data, err := pricing.ExportXML(c.Items, time.Now().UTC())
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write(data)
	default:
		writeBadRequest(w, "unsupported export format: "+format)
	}
}
