// Package fetch provides the page-fetching tiers used by source
// adapters: a fast plain-HTTP tier with a Chrome TLS fingerprint, and a
// headless-browser tier for pages that need JavaScript rendering.
package fetch

import "context"

// Result is a fetched page ready for DOM querying.
type Result struct {
	// HTML is the page markup (rendered, for the browser tier).
	HTML string

	// FinalURL is the URL after following all redirects.
	FinalURL string

	// StatusCode is the HTTP status of the page load, when known.
	StatusCode int

	// Tier names the fetcher that produced the result.
	Tier string
}

// Fetcher retrieves one URL and returns its markup. Implementations must
// honor ctx cancellation and release any acquired resources on every
// exit path.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, url string) (*Result, error)
}
