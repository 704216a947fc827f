package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
	"github.com/kthandra777/hotelfinder-pro/internal/obs"
	"github.com/kthandra777/hotelfinder-pro/internal/providers"
)

// Aggregator aggregates results from multiple providers.
type Aggregator struct {
	providers []providers.Provider
	timeout   time.Duration
	metrics   *obs.Metrics
	logger    *slog.Logger
}

// NewAggregator creates a new Aggregator. Provider order matters: it is
// the precedence used to break ties when merged results are sorted.
func NewAggregator(providerList []providers.Provider, timeout time.Duration, metrics *obs.Metrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		providers: providerList,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
}

// Providers returns the configured providers in precedence order.
func (a *Aggregator) Providers() []providers.Provider {
	return a.providers
}

// Search queries all providers and merges their results into one ranked
// sequence. Providers run concurrently, but each one's batch lands in
// its precedence slot, so the outcome is identical to a sequential run.
// A provider that fails or times out contributes an empty batch; the
// search itself never fails because one source did. All providers
// coming back empty is not an error either, just an empty result.
func (a *Aggregator) Search(ctx context.Context, params providers.Params) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		batches   = make([][]hotel.Record, len(a.providers))
		succeeded int
		failed    int
	)

	for i, p := range a.providers {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, err := p.Fetch(ctx, params)
			if err != nil {
				a.logger.Warn("provider fetch failed",
					"provider", p.Name(),
					"location", params.Location,
					"error", err)
				a.metrics.IncProviderErrors()
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			batch := hotel.Sanitize(raw, p.Name())
			mu.Lock()
			succeeded++
			batches[i] = batch
			mu.Unlock()
		}()
	}

	wg.Wait()

	// The search timeout degrades to per-provider failures above, but a
	// caller cancelling the whole request is surfaced.
	if ctx.Err() == context.Canceled {
		return nil, context.Cause(ctx)
	}

	merged := MergeAndRank(batches...)
	a.logger.Info("search merged",
		"location", params.Location,
		"hotels", len(merged),
		"providers_succeeded", succeeded,
		"providers_failed", failed)

	return &Result{
		Hotels:             merged,
		ProvidersTotal:     len(a.providers),
		ProvidersSucceeded: succeeded,
		ProvidersFailed:    failed,
		Rounds:             1,
	}, nil
}
