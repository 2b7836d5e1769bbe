package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Fetch     FetchConfig
	Sources   SourcesConfig
	Catalog   CatalogConfig
	Batch     BatchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// FetchConfig controls the tiered page fetcher.
type FetchConfig struct {
	// HTTPTimeout is the deadline for the plain-HTTP tier.
	HTTPTimeout time.Duration // default: 8s

	// NavigationTimeout is the max time for browser navigation alone.
	NavigationTimeout time.Duration // default: 15s

	// BlockedResourceTypes lists browser resource types to block.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// SourcesConfig controls the primary source adapters.
type SourcesConfig struct {
	// Timeout bounds each source adapter invocation independently.
	Timeout time.Duration // default: 20s

	// Stealth enables anti-bot evasion in the browser tier.
	Stealth bool // default: true
}

// CatalogConfig controls the fallback catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog service root.
	BaseURL string // default: "https://dummyjson.com"

	// Timeout bounds the single fallback search call.
	Timeout time.Duration // default: 10s

	// Rate is the multiplier from the catalog's native currency unit
	// to the whole-unit price used across all offers.
	Rate float64 // default: 80

	// MaxItems caps how many catalog items become fallback offers.
	MaxItems int // default: 2
}

// BatchConfig controls batch comparison jobs.
type BatchConfig struct {
	// MaxConcurrent bounds how many queries of one batch run at once.
	MaxConcurrent int // default: 3

	// WebhookSecret signs webhook payloads when non-empty.
	WebhookSecret string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PRICESCOUT_HOST", "0.0.0.0"),
			Port: envIntOr("PRICESCOUT_PORT", 8080),
			Mode: envOr("PRICESCOUT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("PRICESCOUT_HEADLESS", true),
			MaxPages:   envIntOr("PRICESCOUT_MAX_PAGES", 10),
			NoSandbox:  envBoolOr("PRICESCOUT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("PRICESCOUT_BROWSER_BIN"),
		},
		Fetch: FetchConfig{
			HTTPTimeout:       envDurationOr("PRICESCOUT_HTTP_TIMEOUT", 8*time.Second),
			NavigationTimeout: envDurationOr("PRICESCOUT_NAV_TIMEOUT", 15*time.Second),
			BlockedResourceTypes: envSliceOr("PRICESCOUT_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Sources: SourcesConfig{
			Timeout: envDurationOr("PRICESCOUT_SOURCE_TIMEOUT", 20*time.Second),
			Stealth: envBoolOr("PRICESCOUT_STEALTH", true),
		},
		Catalog: CatalogConfig{
			BaseURL:  envOr("PRICESCOUT_CATALOG_URL", "https://dummyjson.com"),
			Timeout:  envDurationOr("PRICESCOUT_CATALOG_TIMEOUT", 10*time.Second),
			Rate:     envFloatOr("PRICESCOUT_CATALOG_RATE", 80),
			MaxItems: envIntOr("PRICESCOUT_CATALOG_MAX_ITEMS", 2),
		},
		Batch: BatchConfig{
			MaxConcurrent: envIntOr("PRICESCOUT_BATCH_CONCURRENCY", 3),
			WebhookSecret: os.Getenv("PRICESCOUT_WEBHOOK_SECRET"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PRICESCOUT_AUTH_ENABLED", true),
			APIKeys: envSliceOr("PRICESCOUT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PRICESCOUT_RATE_RPS", 5.0),
			Burst:             envIntOr("PRICESCOUT_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("PRICESCOUT_LOG_LEVEL", "info"),
			Format: envOr("PRICESCOUT_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
