package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/use-agent/pricescout/fetch"
)

// staticFetcher serves a fixed page (or error) and records the URL it
// was asked for.
type staticFetcher struct {
	html   string
	err    error
	gotURL string
}

func (f *staticFetcher) Name() string { return "static" }

func (f *staticFetcher) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	f.gotURL = url
	if f.err != nil {
		return nil, f.err
	}
	return &fetch.Result{HTML: f.html, FinalURL: url, StatusCode: 200, Tier: "static"}, nil
}

func newTestSite(t *testing.T, profile Profile, f fetch.Fetcher) *Site {
	t.Helper()
	s, err := NewSite(profile, f, 5*time.Second)
	if err != nil {
		t.Fatalf("NewSite: %v", err)
	}
	return s
}

const amazonPage = `<html><body>
<div data-component-type="s-search-result">
  <h2><span>Acme Phone 12</span></h2>
  <img src="/images/acme.jpg">
  <span class="a-price-whole">1,299</span>
  <a class="a-link-normal s-no-outline" href="/dp/B000TEST"></a>
</div>
<div data-component-type="s-search-result">
  <h2><span>Acme Phone 12 Case</span></h2>
  <span class="a-price-whole">199</span>
  <a class="a-link-normal s-no-outline" href="/dp/B000CASE"></a>
</div>
</body></html>`

func TestSiteFetchOffer(t *testing.T) {
	f := &staticFetcher{html: amazonPage}
	s := newTestSite(t, AmazonProfile(), f)

	offer, err := s.FetchOffer(context.Background(), "acme phone 12")
	if err != nil {
		t.Fatalf("FetchOffer: %v", err)
	}
	if offer == nil {
		t.Fatal("expected an offer, got nil")
	}

	if offer.Source != "Amazon" {
		t.Errorf("Source = %q, want Amazon", offer.Source)
	}
	if offer.Title != "Acme Phone 12" {
		t.Errorf("Title = %q", offer.Title)
	}
	if offer.Price != 1299 {
		t.Errorf("Price = %d, want 1299 (first card wins, not cheapest)", offer.Price)
	}
	if offer.DetailURL != "https://www.amazon.in/dp/B000TEST" {
		t.Errorf("DetailURL = %q, relative link not absolutized", offer.DetailURL)
	}
	if offer.ImageURL != "https://www.amazon.in/images/acme.jpg" {
		t.Errorf("ImageURL = %q", offer.ImageURL)
	}
	if f.gotURL != "https://www.amazon.in/s?k=acme+phone+12" {
		t.Errorf("search URL = %q, query not escaped into template", f.gotURL)
	}
}

func TestSiteFetchOffer_SelectorFallback(t *testing.T) {
	// Old Flipkart markup: the first selector (_1fQZEK) is absent, the
	// second (_2kHMtA) must win.
	page := `<html><body>
<div class="_2kHMtA">
  <div class="_4rR01T">Acme Phone 12</div>
  <div class="_30jeq3">₹1,199</div>
  <a href="/acme-phone-12/p/itm123"></a>
</div>
</body></html>`

	s := newTestSite(t, FlipkartProfile(), &staticFetcher{html: page})

	offer, err := s.FetchOffer(context.Background(), "acme phone 12")
	if err != nil || offer == nil {
		t.Fatalf("FetchOffer = (%v, %v), want offer", offer, err)
	}
	if offer.Price != 1199 {
		t.Errorf("Price = %d, want 1199", offer.Price)
	}
	if offer.DetailURL != "https://www.flipkart.com/acme-phone-12/p/itm123" {
		t.Errorf("DetailURL = %q", offer.DetailURL)
	}
}

func TestSiteFetchOffer_NoResult(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no card at all", `<html><body><p>no results for your search</p></body></html>`},
		{"missing price", `<html><body><div data-component-type="s-search-result">
			<h2><span>Thing</span></h2><a class="a-link-normal s-no-outline" href="/dp/X"></a></div></body></html>`},
		{"unparsable price", `<html><body><div data-component-type="s-search-result">
			<span class="a-price-whole">N/A</span><a class="a-link-normal s-no-outline" href="/dp/X"></a></div></body></html>`},
		{"zero price", `<html><body><div data-component-type="s-search-result">
			<span class="a-price-whole">0</span><a class="a-link-normal s-no-outline" href="/dp/X"></a></div></body></html>`},
		{"missing link", `<html><body><div data-component-type="s-search-result">
			<span class="a-price-whole">999</span></div></body></html>`},
		{"empty link", `<html><body><div data-component-type="s-search-result">
			<span class="a-price-whole">999</span><a class="a-link-normal s-no-outline" href=""></a></div></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSite(t, AmazonProfile(), &staticFetcher{html: tt.html})
			offer, err := s.FetchOffer(context.Background(), "thing")
			if err != nil {
				t.Fatalf("expected local degradation, got error: %v", err)
			}
			if offer != nil {
				t.Errorf("expected no offer, got %+v", offer)
			}
		})
	}
}

func TestSiteFetchOffer_FetchFailureDegrades(t *testing.T) {
	s := newTestSite(t, AmazonProfile(), &staticFetcher{err: errors.New("connection refused")})

	offer, err := s.FetchOffer(context.Background(), "anything")
	if err != nil {
		t.Fatalf("fetch failure must not propagate, got %v", err)
	}
	if offer != nil {
		t.Errorf("expected no offer, got %+v", offer)
	}
}

func TestNewSite_BadSelector(t *testing.T) {
	p := AmazonProfile()
	p.CardSelectors = []string{"[[["}
	if _, err := NewSite(p, &staticFetcher{}, time.Second); err == nil {
		t.Error("expected error for invalid selector")
	}
}
