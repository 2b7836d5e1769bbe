package fetch

import (
	"context"
	"fmt"
	"log/slog"
)

// Tiered escalates from the HTTP tier to the browser tier within a
// single fetch call. Escalation is sequential, not raced: one invocation
// always produces exactly one terminal outcome, so a source adapter
// built on Tiered settles deterministically.
type Tiered struct {
	http    Fetcher
	browser Fetcher
}

// NewTiered creates a Tiered fetcher. Either tier may be nil, in which
// case the other is used unconditionally.
func NewTiered(httpTier, browserTier Fetcher) *Tiered {
	return &Tiered{http: httpTier, browser: browserTier}
}

func (t *Tiered) Name() string { return "tiered" }

// Fetch tries the HTTP tier first and escalates to the browser when the
// HTTP tier fails or returns what looks like an unrendered JS shell.
func (t *Tiered) Fetch(ctx context.Context, url string) (*Result, error) {
	if t.http == nil && t.browser == nil {
		return nil, fmt.Errorf("tiered fetch: no tiers configured")
	}

	if t.http != nil {
		result, err := t.http.Fetch(ctx, url)
		if err == nil && (t.browser == nil || !NeedsBrowser(result.HTML)) {
			return result, nil
		}
		if err != nil {
			slog.Debug("http tier failed, escalating to browser", "url", url, "error", err)
		} else {
			slog.Debug("http tier returned a JS shell, escalating to browser", "url", url)
		}
		if t.browser == nil {
			if err != nil {
				return nil, err
			}
			return result, nil
		}
	}

	return t.browser.Fetch(ctx, url)
}
