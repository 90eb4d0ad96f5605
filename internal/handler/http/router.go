package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/wishlist"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RouterConfig carries the store identities and CORS settings the router
// needs.
type RouterConfig struct {
	CartStoreName      string
	WishlistStoreName  string
	CORSAllowedOrigins []string
	Environment        string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	catalogService *catalog.Service,
	cartService *cart.CartService,
	wishlistService *wishlist.WishlistService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(catalogService, logger)
	cartHandler := NewCartHandler(cartService, cfg.CartStoreName, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, cartService, cfg.WishlistStoreName, cfg.CartStoreName, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Post("/refresh", catalogHandler.RefreshCatalog)
			r.Get("/{id}", catalogHandler.GetProduct)
		})
		r.Get("/categories", catalogHandler.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Get("/summary", cartHandler.GetSummary)
			r.Get("/validate", cartHandler.ValidateCart)
			r.Get("/export", cartHandler.ExportCart)
			r.Post("/totals", cartHandler.GetTotals)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items", cartHandler.UpdateQuantities)
			r.Delete("/items", cartHandler.RemoveItems)
			r.Post("/items/bulk", cartHandler.AddItems)
			r.Put("/items/{id}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
			r.Post("/items/{id}/increment", cartHandler.IncrementItem)
			r.Post("/items/{id}/decrement", cartHandler.DecrementItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.ClearWishlist)
			r.Post("/toggle", wishlistHandler.ToggleItem)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{id}", wishlistHandler.RemoveItem)
			r.Post("/items/{id}/move-to-cart", wishlistHandler.MoveToCart)
		})
	})

	return r
}
