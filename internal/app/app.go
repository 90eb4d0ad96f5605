// Package app wires together all dependencies and runs the storefront
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/cart"
	cartrepo "github.com/utafrali/storefront/internal/cart/repository"
	cartmemory "github.com/utafrali/storefront/internal/cart/repository/memory"
	cartredis "github.com/utafrali/storefront/internal/cart/repository/redis"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/wishlist"
	wishlistrepo "github.com/utafrali/storefront/internal/wishlist/repository"
	wishlistmemory "github.com/utafrali/storefront/internal/wishlist/repository/memory"
	wishlistredis "github.com/utafrali/storefront/internal/wishlist/repository/redis"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	catalogService  *catalog.Service
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampler,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	eventProducer := event.NewProducer(producer, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Catalog: retrying HTTP client behind a circuit breaker, Redis cache
	// for upstream outages.
	cbClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogCfg := catalog.DefaultServiceConfig()
	catalogCfg.RefreshDebounce = cfg.RefreshDebounce
	catalogCfg.RefreshMinInterval = cfg.RefreshMinInterval
	catalogService := catalog.NewService(
		catalog.NewClient(cbClient, cfg.ProductsURL, logger),
		catalog.NewCache(rdb, cfg.CatalogCacheTTL),
		catalogCfg,
		logger,
	)

	// Stores. Persistence toggles select Redis or process memory per store.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	var cartRepository cartrepo.CartRepository
	if cfg.CartPersist {
		cartRepository = cartredis.NewCartRepository(rdb, cartTTL)
	} else {
		cartRepository = cartmemory.NewCartRepository()
	}
	cartService := cart.NewCartService(cartRepository, eventProducer, logger, domain.CartItem{})

	var wishlistRepository wishlistrepo.WishlistRepository
	if cfg.WishlistPersist {
		wishlistRepository = wishlistredis.NewWishlistRepository(rdb, 0)
	} else {
		wishlistRepository = wishlistmemory.NewWishlistRepository()
	}
	wishlistService := wishlist.NewWishlistService(wishlistRepository, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	healthHandler.Register("catalog", func(context.Context) error {
		if catalogService.RefreshedAt().IsZero() {
			return fmt.Errorf("catalog not loaded")
		}
		return nil
	})

	// HTTP router.
	router := handler.NewRouter(catalogService, cartService, wishlistService, healthHandler, handler.RouterConfig{
		CartStoreName:      cfg.CartStoreName,
		WishlistStoreName:  cfg.WishlistStoreName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:        cfg.Environment,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		catalogService:  catalogService,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run loads the initial catalog snapshot, starts the HTTP server, and blocks
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Initial catalog load. A failed load is not fatal; the readiness probe
	// reports it and a later refresh can recover.
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := a.catalogService.Refresh(loadCtx); err != nil {
		a.logger.Warn("initial catalog load failed",
			slog.String("error", err.Error()),
		)
	}
	cancel()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.catalogService.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
