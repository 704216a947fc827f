package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// cleanFeed returns well-formed records with consistent fields.
type cleanFeed struct {
	rng    *rand.Rand
	logger *slog.Logger
}

func newCleanFeed(logger *slog.Logger) *cleanFeed {
	return &cleanFeed{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

func (f *cleanFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))

	records := []map[string]any{
		{
			"name":     fmt.Sprintf("Grand Hotel %s", titleCase(location)),
			"price":    fmt.Sprintf("$%d/night", 150+f.rng.Intn(100)),
			"rating":   "4.6 Excellent",
			"stars":    5,
			"location": "City Centre",
		},
		{
			"name":     fmt.Sprintf("Riverside Inn %s", titleCase(location)),
			"price":    fmt.Sprintf("$%d/night", 90+f.rng.Intn(60)),
			"rating":   "4.1 Very Good",
			"stars":    3,
			"location": "Riverside District",
		},
		{
			"name":     fmt.Sprintf("Budget Stay %s", titleCase(location)),
			"price":    fmt.Sprintf("$%d/night", 40+f.rng.Intn(30)),
			"rating":   "3.5 Good",
			"stars":    2,
			"location": "Near Airport",
		},
	}

	writeJSON(w, f.logger, records)
}

// messyFeed exercises the sanitizer: ten-point ratings, thousands
// separators, missing fields and outright garbage entries.
type messyFeed struct {
	logger *slog.Logger
}

func newMessyFeed(logger *slog.Logger) *messyFeed {
	return &messyFeed{logger: logger}
}

func (f *messyFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))

	records := []any{
		map[string]any{
			"name":   fmt.Sprintf("Palace Residency %s", titleCase(location)),
			"price":  "₹12,500",
			"rating": "Scored 8.7",
		},
		map[string]any{
			"name":   "Hotel Without Price",
			"rating": "Rated 9.1 by guests",
		},
		map[string]any{
			"name":  "Hotel Without Rating",
			"price": "$75",
		},
		// Nameless and non-object entries must be dropped downstream.
		map[string]any{"price": "$10"},
		"advertisement",
		nil,
	}

	writeJSON(w, f.logger, records)
}

// flakyFeed fails a third of the time and adds latency, for testing
// degraded aggregation.
type flakyFeed struct {
	rng    *rand.Rand
	clean  *cleanFeed
	logger *slog.Logger
}

func newFlakyFeed(logger *slog.Logger) *flakyFeed {
	return &flakyFeed{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		clean:  newCleanFeed(logger),
		logger: logger,
	}
}

func (f *flakyFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	latency := time.Duration(100+f.rng.Intn(400)) * time.Millisecond
	select {
	case <-time.After(latency):
	case <-r.Context().Done():
		return
	}

	if f.rng.Float64() < 0.33 {
		http.Error(w, "feed unavailable", http.StatusServiceUnavailable)
		return
	}

	f.clean.ServeHTTP(w, r)
}

func titleCase(s string) string {
	if s == "" {
		return "Central"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
