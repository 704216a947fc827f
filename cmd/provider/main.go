// Command provider runs a standalone mock hotel feed for local
// development. It speaks the JSON-over-HTTP contract the generic HTTP
// provider consumes, deliberately emitting the kind of messy output
// real feeds produce.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := getEnv("PORT", "9001")
	feedType := getEnv("FEED_TYPE", "clean")

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var feed http.Handler
	switch feedType {
	case "clean":
		feed = newCleanFeed(logger)
	case "messy":
		feed = newMessyFeed(logger)
	case "flaky":
		feed = newFlakyFeed(logger)
	default:
		logger.Error("unknown feed type", "type", feedType)
		os.Exit(1)
	}
	logger.Info("starting mock feed", "type", feedType, "port", port)

	mux := http.NewServeMux()
	mux.Handle("/search", feed)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", "error", err)
		}
	})

	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
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
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
