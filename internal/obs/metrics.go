// Package obs holds the service's observability surface: atomic
// counters exposed in Prometheus text format and the health endpoint.
package obs

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks application metrics using atomic counters.
type Metrics struct {
	searches           atomic.Int64
	cacheHits          atomic.Int64
	providerErrors     atomic.Int64
	narrativeFallbacks atomic.Int64
	logger             *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger,
	}
}

// IncSearches increments the search counter.
func (m *Metrics) IncSearches() {
	m.searches.Add(1)
}

// IncCacheHits increments the cache hits counter.
func (m *Metrics) IncCacheHits() {
	m.cacheHits.Add(1)
}

// IncProviderErrors increments the provider errors counter.
func (m *Metrics) IncProviderErrors() {
	m.providerErrors.Add(1)
}

// IncNarrativeFallbacks counts narrative generations that fell back to
// canned text.
func (m *Metrics) IncNarrativeFallbacks() {
	m.narrativeFallbacks.Add(1)
}

// Snapshot returns current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Searches:           m.searches.Load(),
		CacheHits:          m.cacheHits.Load(),
		ProviderErrors:     m.providerErrors.Load(),
		NarrativeFallbacks: m.narrativeFallbacks.Load(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	Searches           int64
	CacheHits          int64
	ProviderErrors     int64
	NarrativeFallbacks int64
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// MetricsHandler returns a handler for /metrics requests in Prometheus
// text format.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		counters := []struct {
			name  string
			help  string
			value int64
		}{
			{"searches_total", "Total number of hotel searches", snapshot.Searches},
			{"cache_hits_total", "Total number of cache hits", snapshot.CacheHits},
			{"provider_errors_total", "Total number of provider errors", snapshot.ProviderErrors},
			{"narrative_fallbacks_total", "Total number of narrative generations that used fallback text", snapshot.NarrativeFallbacks},
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)

		for _, c := range counters {
			if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
				c.name, c.help, c.name, c.name, c.value); err != nil {
				m.logger.Error("failed to write metrics", "error", err)
				return
			}
		}
	}
}
