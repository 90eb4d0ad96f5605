// Package catalog maintains the in-memory product catalog: fetching records
// from the upstream listing endpoint, caching them in Redis, and answering
// search/filter/sort queries over the loaded snapshot.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/internal/search"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// maxResponseBytes caps the upstream payload size.
const maxResponseBytes = 32 << 20

// Client fetches the product listing from the upstream catalog API. The
// endpoint returns a JSON array of product records; the client never mutates
// them.
type Client struct {
	http   *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

// NewClient creates a catalog client for the given listing URL.
func NewClient(client *httpclient.CircuitBreakerClient, url string, logger *slog.Logger) *Client {
	return &Client{
		http:   client,
		url:    url,
		logger: logger,
	}
}

// FetchProducts retrieves and decodes the full product listing.
func (c *Client) FetchProducts(ctx context.Context) ([]search.Record, error) {
	resp, err := c.http.Get(ctx, c.url)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unavailable(fmt.Sprintf("catalog upstream returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read products response: %w", err)
	}

	var records []search.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}

	c.logger.DebugContext(ctx, "fetched product listing",
		slog.Int("count", len(records)),
	)

	return records, nil
}
