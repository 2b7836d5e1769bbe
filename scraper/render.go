package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/pricescout/fetch"
	"github.com/use-agent/pricescout/models"
	"github.com/ysmood/gson"
)

// Name implements fetch.Fetcher.
func (s *Scraper) Name() string { return "browser" }

// Fetch renders the URL in a pooled browser tab and returns the settled
// DOM. It implements fetch.Fetcher as the heavyweight tier.
//
// Lifecycle:
//
//  1. Deadline guard       – navigation timeout bounds the whole call
//  2. Acquire page         – borrow a tab from the pool (or create one)
//  3. DEFER: cleanup       – about:blank + return to pool (leak prevention)
//  4. Stealth injection    – mask navigator.webdriver etc. (before navigation!)
//  5. Hijack mount         – block images/CSS/fonts/media (before navigation!)
//  6. Context binding      – propagate timeout to all Rod operations
//  7. Navigate + wait      – DOM stable
//  8. Extract              – page.HTML() + final URL + status code
//
// Step 3's about:blank uses the ORIGINAL page reference (without request
// context), so cleanup succeeds even if the request context has expired.
func (s *Scraper) Fetch(ctx context.Context, targetURL string) (*fetch.Result, error) {
	// ── 1. Deadline guard ─────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, s.fetchCfg.NavigationTimeout)
	defer cancel()

	// ── 2. Acquire page from pool ─────────────────────────────────────
	s.activePages.Add(1)
	defer s.activePages.Add(-1)

	page, acquireErr := s.pagePool.Get(func() (*rod.Page, error) {
		return s.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewCompareError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 3. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		s.pagePool.Put(page)
	}()

	// ── 4. Stealth injection ──────────────────────────────────────────
	if s.stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4b. Referer header: arriving from a search engine ────────────
	if u, parseErr := url.Parse(targetURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	// ── 5. Mount hijack router (blocks Image/Stylesheet/Font/Media) ──
	router := setupHijack(page, s.fetchCfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 7. Navigate + wait ────────────────────────────────────────────
	if navErr := p.Navigate(targetURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to search page failed")
	}
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	// ── 7b. Collect status code via JS (best-effort) ─────────────────
	var statusCode int
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}

	// ── 8. Extract rendered HTML ──────────────────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = targetURL
	}

	return &fetch.Result{
		HTML:       rawHTML,
		FinalURL:   finalURL,
		StatusCode: statusCode,
		Tier:       s.Name(),
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps raw errors into typed CompareErrors so callers
// can distinguish timeouts from navigation failures.
func categorizeError(err error, msg string) *models.CompareError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewCompareError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewCompareError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewCompareError(models.ErrCodeNavigation, msg, err)
	}
}
