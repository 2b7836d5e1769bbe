// Package catalog is the fallback product source: a keyword search
// against a hosted catalog API, consulted only when every primary
// source came up empty. Mirroring the source adapters, every failure
// degrades locally to "no items" so the aggregation engine never sees a
// catalog-specific error.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/use-agent/pricescout/config"
	"github.com/use-agent/pricescout/models"
)

// Client searches a dummyjson-style catalog service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a catalog client from config.
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// searchResponse is the catalog's search envelope.
type searchResponse struct {
	Products []models.CatalogItem `json:"products"`
}

// Search runs one keyword search and returns the catalog's items in
// response order. Network errors, non-2xx statuses, and malformed
// bodies all return an empty slice; items with non-positive prices are
// dropped at this boundary so an invalid entry can never become the
// best offer.
func (c *Client) Search(ctx context.Context, query string) []models.CatalogItem {
	searchURL := c.baseURL + "/products/search?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		slog.Warn("catalog: build request failed", "error", err)
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("catalog: search request failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("catalog: search returned non-success status",
			"query", query, "status", resp.StatusCode)
		return nil
	}

	const maxBody = 4 << 20
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		slog.Warn("catalog: read body failed", "error", err)
		return nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		slog.Warn("catalog: malformed search response", "error", err)
		return nil
	}

	items := make([]models.CatalogItem, 0, len(parsed.Products))
	for _, item := range parsed.Products {
		if item.NativePrice <= 0 {
			slog.Debug("catalog: dropping item with non-positive price",
				"id", item.ID, "price", item.NativePrice)
			continue
		}
		items = append(items, item)
	}
	return items
}

// DetailURL builds the absolute product page link for a catalog item.
func (c *Client) DetailURL(id int) string {
	return fmt.Sprintf("%s/products/%d", c.baseURL, id)
}
