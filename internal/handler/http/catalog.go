package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/filter"
	"github.com/utafrali/storefront/internal/search"
)

// CatalogHandler handles HTTP requests for product catalog endpoints.
type CatalogHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products. Query parameters: q (query),
// strategy, categories (comma separated), min_price, max_price, sort,
// highlight (wrap matches in <mark> tags).
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortOption := q.Get("sort")
	if !filter.IsValidSort(sortOption) {
		writeBadRequest(w, "invalid sort option: "+sortOption)
		return
	}

	opts := search.DefaultOptions(nil)
	opts.Strategy = search.ParseStrategy(q.Get("strategy"))

	query := q.Get("q")
	var records []search.Record
	switch {
	case query != "" && q.Get("highlight") == "true":
		records = h.service.SearchHighlighted(query, opts)
	case query != "":
		records = h.service.SearchByStrategy(query, opts)
	default:
		records = h.service.Records()
	}

	state := filter.State{
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Sort:     sortOption,
	}
	if categories := q.Get("categories"); categories != "" {
		state.Selected = strings.Split(categories, ",")
	}

	if state.Active() {
		records = h.service.Filter(records, state)
		records = h.service.Sort(records, state.Sort)
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"products": records,
		"count":    len(records),
	}})
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.Product(id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// ListCategories handles GET /api/v1/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"categories": h.service.Categories(),
	}})
}

// RefreshCatalog handles POST /api/v1/products/refresh. The refresh is
// debounced and throttled; the handler returns immediately.
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	h.service.RequestRefresh()

	writeJSON(w, http.StatusAccepted, response{Data: map[string]string{
		"status": "refresh scheduled",
	}})
}
