package fetch

import (
	"strings"
	"testing"
)

// pageWithText builds a minimal HTML page whose body contains n characters
// of visible text.
func pageWithText(n int, extra string) string {
	return "<html><head><title>t</title></head><body>" + extra +
		"<p>" + strings.Repeat("a", n) + "</p></body></html>"
}

func TestNeedsBrowser(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "server rendered page with plenty of text",
			html: pageWithText(1000, ""),
			want: false,
		},
		{
			name: "nearly empty body",
			html: pageWithText(10, ""),
			want: true,
		},
		{
			name: "react spa shell",
			html: pageWithText(600, `<div id="root"></div>`),
			want: true,
		},
		{
			name: "next.js spa shell",
			html: pageWithText(600, `<div id="__next"></div>`),
			want: true,
		},
		{
			name: "noscript javascript warning",
			html: pageWithText(600, `<noscript>Please enable JavaScript to continue</noscript>`),
			want: true,
		},
		{
			name: "script heavy with thin text",
			html: pageWithText(300, strings.Repeat("<script>var x=1;</script>", 12)),
			want: true,
		},
		{
			name: "script heavy but text rich",
			html: pageWithText(1000, strings.Repeat("<script>var x=1;</script>", 12)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsBrowser(tt.html); got != tt.want {
				t.Errorf("NeedsBrowser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleTextSkipsScriptAndStyle(t *testing.T) {
	html := `<html><body><script>hidden()</script><style>.x{}</style><p>shown</p></body></html>`
	got := visibleText(html)
	if strings.Contains(got, "hidden") || strings.Contains(got, ".x{}") {
		t.Errorf("visibleText leaked script/style content: %q", got)
	}
	if !strings.Contains(got, "shown") {
		t.Errorf("visibleText dropped body text: %q", got)
	}
}

func TestIsHTMLContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"application/json", false},
		{"image/png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isHTMLContentType(tt.ct); got != tt.want {
			t.Errorf("isHTMLContentType(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}
