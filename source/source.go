// Package source turns a normalized query into zero-or-one Offer from
// one external storefront. Each adapter isolates its own failures: a
// broken page, a vanished selector, or a timeout degrades to "no
// result" and never reaches the aggregation engine as an error.
package source

import (
	"context"

	"github.com/use-agent/pricescout/models"
)

// Source is the adapter contract implemented once per external site.
// FetchOffer returns (nil, nil) when the source has no usable result;
// a non-nil error is reserved for failures an adapter could not contain
// and is treated as "no result" by the engine.
type Source interface {
	Name() string
	FetchOffer(ctx context.Context, query string) (*models.Offer, error)
}
