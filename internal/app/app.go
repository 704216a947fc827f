// Package app wires the service together and runs its lifecycle.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kthandra777/hotelfinder-pro/internal/config"
	"github.com/kthandra777/hotelfinder-pro/internal/handler"
	"github.com/kthandra777/hotelfinder-pro/internal/middleware"
	"github.com/kthandra777/hotelfinder-pro/internal/obs"
	"github.com/kthandra777/hotelfinder-pro/internal/providers"
	"github.com/kthandra777/hotelfinder-pro/internal/search"
	"github.com/kthandra777/hotelfinder-pro/internal/search/cache"
	"github.com/kthandra777/hotelfinder-pro/internal/search/ratelimit"
)

// Run initializes and runs the service until interrupted.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	metrics := obs.NewMetrics(logger)

	booking := providers.NewBookingProvider(providers.BookingOptions{
		Headless:          cfg.Scrape.Headless,
		PageWait:          cfg.Scrape.PageWait.Std(),
		ScrollCount:       cfg.Scrape.ScrollCount,
		ScrollPause:       cfg.Scrape.ScrollPause.Std(),
		RequestsPerMinute: cfg.Scrape.RequestsPerMinute,
	}, logger)

	// Declaration order fixes merge precedence for tied records.
	providersList := []providers.Provider{
		booking,
		providers.NewKayakProvider(),
	}
	for _, p := range cfg.Providers {
		timeout := p.Timeout.Std()
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		providersList = append(providersList, providers.NewHTTPProvider(p.Name, p.URL, timeout))
	}

	aggregator := search.NewAggregator(
		providersList,
		cfg.Search.Timeout.Std(),
		metrics,
		logger,
	)

	searchCache := cache.NewCache(cfg.Search.CacheTTL.Std())
	defer searchCache.Close()

	limiter := ratelimit.New(cfg.Server.RequestsPerMinute, time.Minute)
	defer limiter.Close()

	h := handler.New(aggregator, booking, searchCache, limiter, metrics, cfg.Search.MaxRounds, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", h.SearchHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.HandleFunc("GET /metrics", metrics.MetricsHandler())

	wrappedHandler := middleware.Logging(logger)(mux)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      wrappedHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
