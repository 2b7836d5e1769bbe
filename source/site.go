package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/pricescout/fetch"
	"github.com/use-agent/pricescout/models"
	"golang.org/x/net/html"
)

// Site is the generic storefront adapter: fetch the search page for a
// query, find the first result card by the profile's ordered selectors,
// and read its fields. One Site instance serves concurrent calls; every
// invocation gets its own fetch and its own parsed document.
type Site struct {
	profile Profile
	fetcher fetch.Fetcher
	timeout time.Duration
	cards   []cascadia.Sel
}

// NewSite compiles the profile's card selectors and returns the adapter.
func NewSite(profile Profile, fetcher fetch.Fetcher, timeout time.Duration) (*Site, error) {
	if len(profile.CardSelectors) == 0 {
		return nil, fmt.Errorf("source %s: no card selectors configured", profile.Name)
	}
	cards := make([]cascadia.Sel, 0, len(profile.CardSelectors))
	for _, raw := range profile.CardSelectors {
		sel, err := cascadia.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("source %s: bad selector %q: %w", profile.Name, raw, err)
		}
		cards = append(cards, sel)
	}
	return &Site{
		profile: profile,
		fetcher: fetcher,
		timeout: timeout,
		cards:   cards,
	}, nil
}

func (s *Site) Name() string { return s.profile.Name }

// FetchOffer fetches the search page and extracts the first result card.
// Every failure mode — fetch error, timeout, missing card, unparsable
// price, missing link — degrades locally to (nil, nil).
func (s *Site) FetchOffer(ctx context.Context, query string) (*models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	searchURL := s.profile.Origin + fmt.Sprintf(s.profile.SearchPath, url.QueryEscape(query))

	result, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		slog.Debug("source fetch failed", "source", s.profile.Name, "query", query, "error", err)
		return nil, nil
	}

	root, err := html.Parse(strings.NewReader(result.HTML))
	if err != nil {
		slog.Debug("source html parse failed", "source", s.profile.Name, "error", err)
		return nil, nil
	}

	card := firstCard(root, s.cards)
	if card == nil {
		slog.Debug("no result card matched", "source", s.profile.Name, "query", query)
		return nil, nil
	}

	cardDoc := goquery.NewDocumentFromNode(card)

	priceText := cardDoc.Find(s.profile.PriceSelector).First().Text()
	price, ok := parsePrice(priceText)
	if !ok {
		slog.Debug("unparsable price text", "source", s.profile.Name, "text", priceText)
		return nil, nil
	}

	rawLink, hasLink := cardDoc.Find(s.profile.LinkSelector).First().Attr("href")
	if !hasLink || strings.TrimSpace(rawLink) == "" {
		slog.Debug("result card has no link", "source", s.profile.Name, "query", query)
		return nil, nil
	}
	detailURL, err := absolutize(s.profile.Origin, rawLink)
	if err != nil {
		slog.Debug("unusable detail link", "source", s.profile.Name, "error", err)
		return nil, nil
	}

	title := strings.TrimSpace(cardDoc.Find(s.profile.TitleSelector).First().Text())

	imageURL := ""
	if src, hasImg := cardDoc.Find(s.profile.ImageSelector).First().Attr("src"); hasImg {
		if abs, imgErr := absolutize(s.profile.Origin, src); imgErr == nil {
			imageURL = abs
		}
	}

	return &models.Offer{
		Source:    s.profile.Name,
		Title:     title,
		Price:     price,
		ImageURL:  imageURL,
		DetailURL: detailURL,
	}, nil
}
