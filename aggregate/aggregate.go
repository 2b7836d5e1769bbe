// Package aggregate orchestrates one price comparison: fan the
// normalized query out to every source adapter concurrently, wait for
// all of them to settle, fall back to the catalog only on total
// emptiness, and pick the lowest-priced offer deterministically.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/pricescout/models"
	"github.com/use-agent/pricescout/query"
	"github.com/use-agent/pricescout/source"
)

// Catalog is the fallback source consulted once when every primary
// source yields nothing usable.
type Catalog interface {
	Search(ctx context.Context, query string) []models.CatalogItem
	DetailURL(id int) string
}

// Config tunes the engine's fallback conversion.
type Config struct {
	// SourceTimeout bounds each source adapter invocation independently.
	SourceTimeout time.Duration

	// FallbackSource is the reserved source name stamped on offers
	// derived from the catalog.
	FallbackSource string

	// CatalogRate converts the catalog's native currency unit into the
	// whole-unit price shared by all offers.
	CatalogRate float64

	// CatalogMaxItems caps how many catalog items become offers.
	CatalogMaxItems int
}

// Aggregator fans one query out to all registered sources. It holds no
// cross-request state: every Aggregate call is independent.
type Aggregator struct {
	sources []source.Source
	catalog Catalog
	cfg     Config
}

// New creates an Aggregator. Zero config fields get working defaults.
func New(sources []source.Source, catalog Catalog, cfg Config) *Aggregator {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 20 * time.Second
	}
	if cfg.FallbackSource == "" {
		cfg.FallbackSource = "Catalog"
	}
	if cfg.CatalogRate <= 0 {
		cfg.CatalogRate = 80
	}
	if cfg.CatalogMaxItems <= 0 {
		cfg.CatalogMaxItems = 2
	}
	return &Aggregator{sources: sources, catalog: catalog, cfg: cfg}
}

// Aggregate runs one comparison for the raw query.
//
// Every source runs concurrently under its own timeout and the engine
// waits for all of them to settle — a slow or failing source can never
// cancel or starve the others, and the engine never returns early with
// a partial primary result. The fallback catalog is consulted exactly
// once, and only when every primary source produced nothing. The only
// error condition is NO_OFFERS_FOUND: both layers came up empty.
func (a *Aggregator) Aggregate(ctx context.Context, raw string) (*models.AggregateResult, error) {
	normalized := query.Normalize(raw)

	// ── Fan out to all sources, all-settled join ─────────────────────
	offersCh := make(chan models.Offer, len(a.sources))
	var wg sync.WaitGroup

	for _, src := range a.sources {
		wg.Add(1)
		go func(s source.Source) {
			defer wg.Done()
			// A panicking adapter counts as no result; it must not take
			// the whole request down.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("source panicked", "source", s.Name(), "panic", r)
				}
			}()

			srcCtx, cancel := context.WithTimeout(ctx, a.cfg.SourceTimeout)
			defer cancel()

			offer, err := s.FetchOffer(srcCtx, normalized)
			if err != nil {
				slog.Warn("source failed", "source", s.Name(), "query", normalized, "error", err)
				return
			}
			if offer == nil {
				slog.Debug("source returned no result", "source", s.Name(), "query", normalized)
				return
			}
			if offer.Price <= 0 || offer.DetailURL == "" {
				slog.Warn("source returned invalid offer, discarding",
					"source", s.Name(), "price", offer.Price)
				return
			}
			offersCh <- *offer
		}(src)
	}

	wg.Wait()
	close(offersCh)

	// Channel send order is completion order; that order is also the
	// tie-break order for best-offer selection.
	offers := make([]models.Offer, 0, len(a.sources))
	for offer := range offersCh {
		offers = append(offers, offer)
	}

	// ── Fallback: catalog, strictly last resort ──────────────────────
	if len(offers) == 0 {
		offers = a.fallbackOffers(ctx, normalized)
	}

	if len(offers) == 0 {
		return nil, models.NewCompareError(
			models.ErrCodeNoOffers,
			fmt.Sprintf("no offers found for %q", raw),
			nil,
		)
	}

	best := bestOffer(offers)
	return &models.AggregateResult{
		Query:           raw,
		NormalizedQuery: normalized,
		Offers:          offers,
		Best:            best,
		Summary:         fmt.Sprintf("Best price for %q is ₹%d at %s.", raw, best.Price, best.Source),
	}, nil
}

// fallbackOffers converts the first CatalogMaxItems catalog results into
// offers. Truncation is positional (response order), not price-based.
func (a *Aggregator) fallbackOffers(ctx context.Context, normalized string) []models.Offer {
	if a.catalog == nil {
		return nil
	}

	items := a.catalog.Search(ctx, normalized)
	if len(items) > a.cfg.CatalogMaxItems {
		items = items[:a.cfg.CatalogMaxItems]
	}

	offers := make([]models.Offer, 0, len(items))
	for _, item := range items {
		price := int(item.NativePrice * a.cfg.CatalogRate)
		if price <= 0 {
			slog.Debug("fallback item scaled to non-positive price, discarding",
				"id", item.ID, "nativePrice", item.NativePrice)
			continue
		}
		offers = append(offers, models.Offer{
			Source:    a.cfg.FallbackSource,
			Title:     item.Title,
			Price:     price,
			ImageURL:  item.ImageURL,
			DetailURL: a.catalog.DetailURL(item.ID),
		})
	}
	if len(offers) > 0 {
		slog.Info("primary sources empty, using catalog fallback",
			"query", normalized, "offers", len(offers))
	}
	return offers
}

// bestOffer returns the offer with the strictly lowest price. Ties keep
// the earliest arrival: a single forward scan with strict less-than,
// never a re-sort.
func bestOffer(offers []models.Offer) *models.Offer {
	best := &offers[0]
	for i := 1; i < len(offers); i++ {
		if offers[i].Price < best.Price {
			best = &offers[i]
		}
	}
	return best
}
