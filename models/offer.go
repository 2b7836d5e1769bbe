package models

// Offer is one normalized product listing found on one source.
// An Offer is built once by a source adapter (or the fallback catalog
// converter), is immutable afterwards, and lives only for the duration
// of a single request.
type Offer struct {
	// Source identifies the originating source, e.g. "Amazon".
	Source string `json:"source"`

	// Title is the product name as reported by the source. May be empty.
	Title string `json:"title,omitempty"`

	// Price is a positive whole-unit price. Fractional price text is
	// truncated during extraction, matching the sources' own whole-unit
	// display. Zero is never a valid price.
	Price int `json:"price"`

	// ImageURL is an absolute URL to the product image. May be empty.
	ImageURL string `json:"image_url,omitempty"`

	// DetailURL is the absolute URL of the listing. An extracted result
	// without a usable link never becomes an Offer.
	DetailURL string `json:"detail_url"`
}

// CatalogItem is one raw item returned by the fallback catalog service.
// NativePrice is in the catalog's own currency unit and is converted to
// a whole-unit Offer price by the aggregation engine.
type CatalogItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	NativePrice float64 `json:"price"`
	ImageURL    string  `json:"thumbnail"`
}

// AggregateResult is the engine's output for one query.
type AggregateResult struct {
	// Query is the raw input as received.
	Query string `json:"query"`

	// NormalizedQuery is the canonical form sent to every source.
	NormalizedQuery string `json:"normalized_query"`

	// Offers holds every usable offer in arrival (completion) order.
	// The order is not a price order.
	Offers []Offer `json:"offers"`

	// Best points at the element of Offers with the lowest price.
	// Among equal prices the earliest arrival wins.
	Best *Offer `json:"best"`

	// Summary is a one-sentence human-readable verdict.
	Summary string `json:"summary"`
}
