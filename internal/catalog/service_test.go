package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/filter"
	"github.com/utafrali/storefront/internal/search"
	"github.com/utafrali/storefront/pkg/httpclient"
)

const listingJSON = `[
	{"id": 1, "title": "Laptop", "price": 999, "category": {"name": "Electronics"}},
	{"id": 2, "title": "Phone", "price": 599, "category": {"name": "Electronics"}},
	{"id": 3, "title": "Book", "price": 19, "category": {"name": "Books"}}
]`

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *miniredis.Miniredis) {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	logger := newTestLogger()
	httpCfg := httpclient.DefaultConfig()
	httpCfg.MaxRetries = 0
	cbClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog-test"),
		logger,
	)

	client := NewClient(cbClient, upstream.URL+"/products", logger)
	cache := NewCache(redisClient, time.Hour)

	svc := NewService(client, cache, DefaultServiceConfig(), logger)
	t.Cleanup(svc.Close)
	return svc, mr
}

func serveListing(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingJSON))
	}
}

// ---------------------------------------------------------------------------
// Refresh
// ---------------------------------------------------------------------------

func TestRefresh_LoadsSnapshot(t *testing.T) {
	svc, _ := newTestService(t, serveListing(t))

	require.NoError(t, svc.Refresh(context.Background()))

	assert.Len(t, svc.Records(), 3)
	assert.False(t, svc.RefreshedAt().IsZero())
}

func TestRefresh_WritesCache(t *testing.T) {
	svc, mr := newTestService(t, serveListing(t))

	require.NoError(t, svc.Refresh(context.Background()))

	assert.True(t, mr.Exists("catalog:records"))
}

func TestRefresh_FallsBackToCacheOnUpstreamFailure(t *testing.T) {
	var fail atomic.Bool
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingJSON))
	})

	require.NoError(t, svc.Refresh(context.Background()))
	fail.Store(true)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Len(t, svc.Records(), 3)
}

func TestRefresh_ErrorWhenUpstreamAndCacheCold(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := svc.Refresh(context.Background())

	require.Error(t, err)
	assert.Empty(t, svc.Records())
}

func TestRequestRefresh_CoalescesBursts(t *testing.T) {
	var hits atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingJSON))
	})

	for range 5 {
		svc.RequestRefresh()
	}

	assert.Eventually(t, func() bool {
		return len(svc.Records()) == 3
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestSearch_UsesDefaultKeys(t *testing.T) {
	svc, _ := newTestService(t, serveListing(t))
	require.NoError(t, svc.Refresh(context.Background()))

	got := svc.Search("lap", search.Options{})

	require.Len(t, got, 1)
	assert.Equal(t, "Laptop", got[0]["title"])
}

func TestSearchByStrategy_Fuzzy(t *testing.T) {
	svc, _ := newTestService(t, serveListing(t))
	require.NoError(t, svc.Refresh(context.Background()))

	opts := search.DefaultOptions(nil)
	opts.Strategy = search.StrategyFuzzy
	opts.Keys = nil

	got := svc.SearchByStrategy("lpt", opts)

	require.Len(t, got, 1)
	assert.Equal(t, "Laptop", got[0]["title"])
}

func TestFilterAndSort(t *testing.T) {
	svc, _ := newTestService(t, serveListing(t))
	require.NoError(t, svc.Refresh(context.Background()))

	filtered := svc.Filter(nil, filter.State{Selected: []string{"Electronics"}})
	require.Len(t, filtered, 2)

	sorted := svc.Sort(filtered, filter.SortPriceLow)
	assert.Equal(t, "Phone", sorted[0]["title"])
	assert.Equal(t, "Laptop", sorted[1]["title"])
}

func TestCategories(t *testing.T) {
	svc, _ := newTestService(t, serveListing(t))
	require.NoError(t, svc.Refresh(context.Background()))

	assert.Equal(t, []string{"Books", "Electronics"}, svc.Categories())
}

func TestProduct_ByID(t *testing.T) {
	svc, _ := newTestService(t, serveListing(t))
	require.NoError(t, svc.Refresh(context.Background()))

	p, err := svc.Product("2")
	require.NoError(t, err)
	assert.Equal(t, "Phone", p.Title)

	_, err = svc.Product("404")
	require.Error(t, err)
}
