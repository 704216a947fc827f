// Package handler exposes the search pipeline over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kthandra777/hotelfinder-pro/internal/format"
	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
	"github.com/kthandra777/hotelfinder-pro/internal/middleware"
	"github.com/kthandra777/hotelfinder-pro/internal/obs"
	"github.com/kthandra777/hotelfinder-pro/internal/providers"
	"github.com/kthandra777/hotelfinder-pro/internal/search"
	"github.com/kthandra777/hotelfinder-pro/internal/search/cache"
	"github.com/kthandra777/hotelfinder-pro/internal/search/ratelimit"
)

// Handler handles HTTP requests.
type Handler struct {
	aggregator  *search.Aggregator
	more        providers.Provider
	cache       *cache.Cache
	rateLimiter *ratelimit.Limiter
	metrics     *obs.Metrics
	maxRounds   int
	logger      *slog.Logger
}

// New creates a Handler. more is the provider re-fetched on extra
// session rounds; maxRounds caps the rounds a client may request.
func New(
	aggregator *search.Aggregator,
	more providers.Provider,
	searchCache *cache.Cache,
	rateLimiter *ratelimit.Limiter,
	metrics *obs.Metrics,
	maxRounds int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		aggregator:  aggregator,
		more:        more,
		cache:       searchCache,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		maxRounds:   maxRounds,
		logger:      logger,
	}
}

// SearchResponse is the complete API response.
type SearchResponse struct {
	Search SearchInfo     `json:"search"`
	Stats  SearchStats    `json:"stats"`
	Hotels []hotel.Record `json:"hotels"`
	Digest string         `json:"digest"`
}

// SearchInfo echoes the validated search parameters.
type SearchInfo struct {
	Location string `json:"location"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Adults   int    `json:"adults"`
	Rounds   int    `json:"rounds"`
}

// SearchStats contains search statistics.
type SearchStats struct {
	ProvidersTotal     int    `json:"providers_total"`
	ProvidersSucceeded int    `json:"providers_succeeded"`
	ProvidersFailed    int    `json:"providers_failed"`
	Rounds             int    `json:"rounds"`
	Cache              string `json:"cache"`
	DurationMs         int64  `json:"duration_ms"`
}

// SearchHandler handles /search requests.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	h.metrics.IncSearches()
	requestID := middleware.RequestID(r.Context())

	ip := ExtractIP(r)
	if !h.rateLimiter.Allow(ip) {
		h.logger.Warn("rate limit exceeded", "request_id", requestID, "ip", ip)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	req, err := ParseSearchRequest(r, h.maxRounds)
	if err != nil {
		h.logger.Debug("invalid request parameters", "request_id", requestID, "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.Key(req.Params, req.Rounds)

	result, cacheHit, err := h.cache.GetOrFetch(r.Context(), key, func() (*search.Result, error) {
		sess := search.NewSession(h.aggregator, h.more, scriptedDecision(req.Rounds), h.maxRounds, h.logger)
		return sess.Run(r.Context(), req.Params)
	})
	if err != nil {
		h.logger.Error("search failed",
			"request_id", requestID,
			"error", err,
			"location", req.Params.Location,
			"ip", ip,
		)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.IncCacheHits()
	}

	switch req.Format {
	case "digest":
		writeText(w, format.Digest(result.Hotels))
		return
	case "listing":
		writeText(w, format.Listing(result.Hotels, r.URL.Query().Get("source")))
		return
	}

	response := SearchResponse{
		Search: SearchInfo{
			Location: req.Params.Location,
			CheckIn:  req.Params.CheckInDate(),
			CheckOut: req.Params.CheckOutDate(),
			Adults:   req.Params.Adults,
			Rounds:   req.Rounds,
		},
		Stats: SearchStats{
			ProvidersTotal:     result.ProvidersTotal,
			ProvidersSucceeded: result.ProvidersSucceeded,
			ProvidersFailed:    result.ProvidersFailed,
			Rounds:             result.Rounds,
			Cache:              cacheStatus,
			DurationMs:         time.Since(startTime).Milliseconds(),
		},
		Hotels: result.Hotels,
		Digest: format.Digest(result.Hotels),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// scriptedDecision answers "yes" until the requested round count is
// reached. The HTTP surface has no interactive caller, so the rounds
// parameter stands in for the continue/stop conversation.
func scriptedDecision(rounds int) search.DecisionFunc {
	remaining := rounds - 1
	return func(ctx context.Context) (string, error) {
		if remaining > 0 {
			remaining--
			return "yes", nil
		}
		return "no", nil
	}
}

// SearchRequest holds validated request parameters.
type SearchRequest struct {
	Params providers.Params
	Rounds int
	Format string
}

// ParseSearchRequest parses and validates query parameters.
func ParseSearchRequest(r *http.Request, maxRounds int) (*SearchRequest, error) {
	query := r.URL.Query()

	location := strings.TrimSpace(query.Get("location"))
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	checkInStr := strings.TrimSpace(query.Get("check_in"))
	if checkInStr == "" {
		return nil, fmt.Errorf("check_in is required")
	}
	checkIn, err := time.Parse("2006-01-02", checkInStr)
	if err != nil {
		return nil, fmt.Errorf("check_in must be in YYYY-MM-DD format")
	}

	checkOutStr := strings.TrimSpace(query.Get("check_out"))
	if checkOutStr == "" {
		return nil, fmt.Errorf("check_out is required")
	}
	checkOut, err := time.Parse("2006-01-02", checkOutStr)
	if err != nil {
		return nil, fmt.Errorf("check_out must be in YYYY-MM-DD format")
	}
	if checkOut.Before(checkIn) {
		return nil, fmt.Errorf("check_out must not be before check_in")
	}

	adultsStr := query.Get("adults")
	if adultsStr == "" {
		return nil, fmt.Errorf("adults is required")
	}
	adults, err := strconv.Atoi(adultsStr)
	if err != nil || adults <= 0 {
		return nil, fmt.Errorf("adults must be a positive integer")
	}

	rounds := 1
	if roundsStr := query.Get("rounds"); roundsStr != "" {
		rounds, err = strconv.Atoi(roundsStr)
		if err != nil || rounds <= 0 {
			return nil, fmt.Errorf("rounds must be a positive integer")
		}
		if maxRounds > 0 && rounds > maxRounds {
			return nil, fmt.Errorf("rounds must not exceed %d", maxRounds)
		}
	}

	outFormat := query.Get("format")
	switch outFormat {
	case "", "json", "digest", "listing":
	default:
		return nil, fmt.Errorf("format must be one of json, digest, listing")
	}

	return &SearchRequest{
		Params: providers.Params{
			Location: location,
			CheckIn:  checkIn,
			CheckOut: checkOut,
			Adults:   adults,
			Credentials: providers.Credentials{
				APIKey:    r.Header.Get("X-Provider-Key"),
				ProjectID: r.Header.Get("X-Provider-Project"),
			},
		},
		Rounds: rounds,
		Format: outFormat,
	}, nil
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
