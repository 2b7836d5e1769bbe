package source

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// firstCard returns the first node matching the ordered selector list.
// Earlier selectors take precedence over later ones regardless of
// document position.
func firstCard(root *html.Node, selectors []cascadia.Sel) *html.Node {
	for _, sel := range selectors {
		if n := cascadia.Query(root, sel); n != nil {
			return n
		}
	}
	return nil
}

// parsePrice sanitizes price text by stripping every non-digit rune and
// parsing the remainder as an integer. "₹1,299" → 1299. Returns false
// for empty, non-numeric, or non-positive results; zero is never a
// valid price.
func parsePrice(text string) (int, bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	price, err := strconv.Atoi(digits.String())
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// absolutize resolves ref against the source origin. Already-absolute
// URLs pass through unchanged; anything that cannot resolve to a URL
// with a host is an error.
func absolutize(origin, ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", origin, err)
	}
	resolved := base.ResolveReference(u)
	if resolved.Host == "" {
		return "", fmt.Errorf("link %q resolved without host", ref)
	}
	return resolved.String(), nil
}
