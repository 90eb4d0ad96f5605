// Package config holds the storefront service configuration, loaded from
// environment variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Upstream catalog
	ProductsURL        string        `env:"PRODUCTS_URL" envDefault:"https://api.escuelajs.co/api/v1/products"`
	CatalogCacheTTL    time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"1h"`
	RefreshDebounce    time.Duration `env:"CATALOG_REFRESH_DEBOUNCE" envDefault:"300ms"`
	RefreshMinInterval time.Duration `env:"CATALOG_REFRESH_MIN_INTERVAL" envDefault:"10s"`

	// Store identities. Independent names keep persisted state from colliding.
	CartStoreName     string `env:"CART_STORE_NAME" envDefault:"storefront-cart"`
	WishlistStoreName string `env:"WISHLIST_STORE_NAME" envDefault:"storefront-wishlist"`

	// Persistence toggles; disabled stores keep state in process memory.
	CartPersist     bool `env:"CART_PERSIST" envDefault:"true"`
	WishlistPersist bool `env:"WISHLIST_PERSIST" envDefault:"true"`

	// Cart TTL in hours (default: 7 days). Zero keeps carts indefinitely.
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampler  float64 `env:"TRACING_SAMPLER_RATIO" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.ProductsURL == "" {
		return fmt.Errorf("products URL must not be empty")
	}
	if c.CartStoreName == c.WishlistStoreName {
		return fmt.Errorf("cart and wishlist store names must differ")
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("cart TTL must not be negative: %d", c.CartTTL)
	}
	return nil
}
