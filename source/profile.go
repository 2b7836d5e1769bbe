package source

// Profile is the per-site configuration of a Site adapter: where to
// search and which selectors to read. Selector sets are data — when a
// storefront ships new markup, add the new card selector here without
// touching the engine.
type Profile struct {
	// Name identifies the source in offers, e.g. "Amazon".
	Name string

	// Origin is the site root used to absolutize relative URLs.
	Origin string

	// SearchPath is a printf template appended to Origin; the single
	// %s receives the query-escaped search text.
	SearchPath string

	// CardSelectors is the ordered list of known result-card selectors.
	// The first selector that matches anything wins; later entries cover
	// older markup variants the site may still serve.
	CardSelectors []string

	// Sub-field selectors, evaluated relative to the matched card.
	TitleSelector string
	ImageSelector string
	PriceSelector string
	LinkSelector  string
}

// AmazonProfile describes the Amazon-style storefront.
func AmazonProfile() Profile {
	return Profile{
		Name:          "Amazon",
		Origin:        "https://www.amazon.in",
		SearchPath:    "/s?k=%s",
		CardSelectors: []string{`[data-component-type="s-search-result"]`},
		TitleSelector: "h2 span",
		ImageSelector: "img",
		PriceSelector: ".a-price-whole",
		LinkSelector:  "a.a-link-normal.s-no-outline",
	}
}

// FlipkartProfile describes the Flipkart-style storefront. Flipkart has
// shipped two card layouts; both selectors stay listed so either markup
// variant extracts.
func FlipkartProfile() Profile {
	return Profile{
		Name:          "Flipkart",
		Origin:        "https://www.flipkart.com",
		SearchPath:    "/search?q=%s",
		CardSelectors: []string{"._1fQZEK", "._2kHMtA"},
		TitleSelector: "._4rR01T",
		ImageSelector: "img",
		PriceSelector: "._30jeq3",
		LinkSelector:  "a",
	}
}
