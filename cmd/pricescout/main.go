package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/pricescout/aggregate"
	"github.com/use-agent/pricescout/api"
	"github.com/use-agent/pricescout/catalog"
	"github.com/use-agent/pricescout/config"
	"github.com/use-agent/pricescout/fetch"
	"github.com/use-agent/pricescout/scraper"
	"github.com/use-agent/pricescout/source"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("pricescout starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxPages", cfg.Browser.MaxPages,
	)

	// ── 3. Initialise scraper (launches browser) ────────────────────
	sc, err := scraper.NewScraper(cfg.Browser, cfg.Fetch, cfg.Sources.Stealth)
	if err != nil {
		slog.Error("failed to initialise scraper", "error", err)
		os.Exit(1)
	}
	defer sc.Close()

	// ── 4. Build the tiered fetcher and source adapters ─────────────
	// Plain HTTP first, browser rendering only when the page needs it.
	tiered := fetch.NewTiered(fetch.NewHTTPFetcher(cfg.Fetch.HTTPTimeout), sc)

	profiles := []source.Profile{
		source.AmazonProfile(),
		source.FlipkartProfile(),
	}
	sources := make([]source.Source, 0, len(profiles))
	sourceNames := make([]string, 0, len(profiles))
	for _, p := range profiles {
		site, err := source.NewSite(p, tiered, cfg.Sources.Timeout)
		if err != nil {
			slog.Error("failed to build source adapter", "source", p.Name, "error", err)
			os.Exit(1)
		}
		sources = append(sources, site)
		sourceNames = append(sourceNames, p.Name)
	}

	// ── 5. Catalog fallback + aggregation engine ────────────────────
	cat := catalog.NewClient(cfg.Catalog)
	agg := aggregate.New(sources, cat, aggregate.Config{
		SourceTimeout:   cfg.Sources.Timeout,
		CatalogRate:     cfg.Catalog.Rate,
		CatalogMaxItems: cfg.Catalog.MaxItems,
	})

	// ── 6. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(agg, sc, sourceNames, cfg, startTime)

	// ── 7. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sc.Close() runs via defer — drains page pool and kills Chrome.
	slog.Info("pricescout stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
