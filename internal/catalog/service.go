package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/filter"
	"github.com/utafrali/storefront/internal/search"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/rate"
)

// DefaultSearchKeys maps the logical search fields to their record paths.
func DefaultSearchKeys() search.KeyMap {
	return search.KeyMap{
		"title":       "title",
		"description": "description",
		"category":    "category.name",
	}
}

// ServiceConfig tunes the catalog service's refresh behaviour.
type ServiceConfig struct {
	// RefreshDebounce is the quiet period applied to RequestRefresh bursts.
	RefreshDebounce time.Duration

	// RefreshMinInterval is the minimum spacing between upstream fetches.
	RefreshMinInterval time.Duration

	// RefreshTimeout bounds a single background refresh.
	RefreshTimeout time.Duration
}

// DefaultServiceConfig returns sensible defaults for the catalog service.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		RefreshDebounce:    300 * time.Millisecond,
		RefreshMinInterval: 10 * time.Second,
		RefreshTimeout:     30 * time.Second,
	}
}

// Service holds the loaded catalog snapshot and serves every product query
// against it. Queries never touch the upstream; refreshes swap the snapshot
// atomically under the lock.
type Service struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
	cfg    ServiceConfig
	keys   search.KeyMap

	mu          sync.RWMutex
	records     []search.Record
	refreshedAt time.Time

	debouncer *rate.Debouncer[struct{}]
	throttler *rate.Throttler[struct{}]
}

// NewService creates a catalog service. Call Refresh (or RequestRefresh)
// before serving queries; until then the snapshot is empty.
func NewService(client *Client, cache *Cache, cfg ServiceConfig, logger *slog.Logger) *Service {
	s := &Service{
		client: client,
		cache:  cache,
		logger: logger,
		cfg:    cfg,
		keys:   DefaultSearchKeys(),
	}

	// Bursts of refresh requests coalesce into one upstream fetch: the
	// debouncer waits out the burst, the throttler enforces minimum spacing.
	s.throttler = rate.NewThrottler(cfg.RefreshMinInterval, func(struct{}) {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RefreshTimeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			logger.Error("background catalog refresh failed",
				slog.String("error", err.Error()),
			)
		}
	})
	s.debouncer = rate.NewDebouncer(cfg.RefreshDebounce, func(v struct{}) {
		s.throttler.Call(v)
	})

	return s
}

// RequestRefresh asks for a catalog refresh without blocking. Rapid repeated
// requests collapse into a single fetch after the quiet period.
func (s *Service) RequestRefresh() {
	s.debouncer.Call(struct{}{})
}

// Refresh fetches the listing from the upstream and swaps the snapshot. When
// the upstream fails, it falls back to the Redis cache; only when both fail
// does the previous snapshot stay in place and the error surface.
func (s *Service) Refresh(ctx context.Context) error {
	records, err := s.client.FetchProducts(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "upstream fetch failed, trying cache",
			slog.String("error", err.Error()),
		)

		cached, cacheErr := s.cache.GetRecords(ctx)
		if cacheErr != nil {
			if !errors.Is(cacheErr, apperrors.ErrNotFound) {
				s.logger.ErrorContext(ctx, "catalog cache read failed",
					slog.String("error", cacheErr.Error()),
				)
			}
			return fmt.Errorf("refresh catalog: %w", err)
		}

		s.swap(cached)
		s.logger.InfoContext(ctx, "catalog served from cache",
			slog.Int("count", len(cached)),
		)
		return nil
	}

	if err := s.cache.SetRecords(ctx, records); err != nil {
		s.logger.ErrorContext(ctx, "catalog cache write failed",
			slog.String("error", err.Error()),
		)
	}

	s.swap(records)
	s.logger.InfoContext(ctx, "catalog refreshed",
		slog.Int("count", len(records)),
	)
	return nil
}

// Close stops any pending debounced refresh.
func (s *Service) Close() {
	s.debouncer.Stop()
}

func (s *Service) swap(records []search.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.refreshedAt = time.Now().UTC()
}

// snapshot returns the current records. Callers must not mutate them; every
// query function downstream derives copies.
func (s *Service) snapshot() []search.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// RefreshedAt returns when the snapshot was last swapped.
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Records returns the raw loaded records.
func (s *Service) Records() []search.Record {
	return s.snapshot()
}

// Products returns the typed view of the loaded records.
func (s *Service) Products() []domain.Product {
	records := s.snapshot()
	out := make([]domain.Product, len(records))
	for i, rec := range records {
		out[i] = domain.ProductFromRecord(rec)
	}
	return out
}

// Product returns the typed product with the given ID.
func (s *Service) Product(id string) (domain.Product, error) {
	for _, rec := range s.snapshot() {
		p := domain.ProductFromRecord(rec)
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperrors.NotFound("product", id)
}

// Search runs a plain substring search over the snapshot.
func (s *Service) Search(query string, opts search.Options) []search.Record {
	if opts.Keys == nil {
		opts.Keys = s.keys
	}
	return search.Basic(s.snapshot(), query, opts)
}

// SearchByStrategy runs the strategy selected in opts over the snapshot.
func (s *Service) SearchByStrategy(query string, opts search.Options) []search.Record {
	if opts.Keys == nil {
		opts.Keys = s.keys
	}
	return search.ByStrategy(s.snapshot(), query, opts)
}

// SearchRanked runs a weighted ranked search over the snapshot.
func (s *Service) SearchRanked(query string, opts search.Options) []search.Record {
	if opts.Keys == nil {
		opts.Keys = s.keys
	}
	return search.Ranked(s.snapshot(), query, opts)
}

// SearchHighlighted runs a substring search and wraps matches in the results.
func (s *Service) SearchHighlighted(query string, opts search.Options) []search.Record {
	if opts.Keys == nil {
		opts.Keys = s.keys
	}
	return search.Highlight(s.snapshot(), query, opts)
}

// Filter applies the category/price filter state to the given records, or to
// the full snapshot when records is nil.
func (s *Service) Filter(records []search.Record, state filter.State) []search.Record {
	if records == nil {
		records = s.snapshot()
	}
	return filter.Apply(records, state)
}

// Sort orders the given records by the sort option, or the full snapshot
// when records is nil.
func (s *Service) Sort(records []search.Record, option string) []search.Record {
	if records == nil {
		records = s.snapshot()
	}
	return filter.SortRecords(records, option)
}

// Categories returns the distinct category names in the snapshot.
func (s *Service) Categories() []string {
	return filter.Categories(s.snapshot())
}
