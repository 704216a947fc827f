package search_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kthandra777/hotelfinder-pro/internal/obs"
	"github.com/kthandra777/hotelfinder-pro/internal/providers"
	"github.com/kthandra777/hotelfinder-pro/internal/search"
)

// mockProvider is a test provider returning predefined raw records.
type mockProvider struct {
	name    string
	items   []any
	err     error
	delay   time.Duration
	fetches int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Fetch(ctx context.Context, params providers.Params) ([]any, error) {
	m.fetches++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}
	return m.items, m.err
}

func rawHotel(fields map[string]any) map[string]any { return fields }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func searchParams() providers.Params {
	checkIn, _ := time.Parse("2006-01-02", "2026-09-01")
	return providers.Params{
		Location: "paris",
		CheckIn:  checkIn,
		CheckOut: checkIn.AddDate(0, 0, 2),
		Adults:   2,
	}
}

func newAggregator(t *testing.T, timeout time.Duration, provs ...providers.Provider) *search.Aggregator {
	t.Helper()
	logger := testLogger()
	return search.NewAggregator(provs, timeout, obs.NewMetrics(logger), logger)
}

func TestAggregator_Search_Merging(t *testing.T) {
	agg := newAggregator(t, 2*time.Second,
		&mockProvider{
			name: "Booking.com",
			items: []any{
				rawHotel(map[string]any{"name": "Hotel A", "rating": "Scored 9.2", "price": "₹9,000"}),
				rawHotel(map[string]any{"name": "Hotel B", "rating": "Scored 7.0"}),
			},
		},
		&mockProvider{
			name: "Kayak",
			items: []any{
				rawHotel(map[string]any{"name": "Hotel C", "rating": "4.4 Excellent", "price": "$120/night"}),
			},
		},
	)

	result, err := agg.Search(context.Background(), searchParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ProvidersTotal != 2 || result.ProvidersSucceeded != 2 || result.ProvidersFailed != 0 {
		t.Errorf("stats = %d/%d/%d, want 2/2/0",
			result.ProvidersTotal, result.ProvidersSucceeded, result.ProvidersFailed)
	}
	if len(result.Hotels) != 3 {
		t.Fatalf("expected 3 hotels, got %d", len(result.Hotels))
	}

	// 9.2/2=4.6 > 4.4 > 7.0/2=3.5
	wantOrder := []string{"Hotel A", "Hotel C", "Hotel B"}
	for i, want := range wantOrder {
		if result.Hotels[i].Name != want {
			t.Errorf("position %d = %s, want %s", i, result.Hotels[i].Name, want)
		}
		if result.Hotels[i].Rank != i+1 {
			t.Errorf("position %d rank = %d, want %d", i, result.Hotels[i].Rank, i+1)
		}
	}
	if result.Hotels[2].Source != "Booking.com" {
		t.Errorf("source = %q, want stamped provider name", result.Hotels[2].Source)
	}
}

func TestAggregator_Search_PartialFailure(t *testing.T) {
	agg := newAggregator(t, 2*time.Second,
		&mockProvider{name: "Booking.com", err: providers.ErrProviderUnavailable},
		&mockProvider{
			name:  "Kayak",
			items: []any{rawHotel(map[string]any{"name": "Hotel A", "rating": "4.0"})},
		},
	)

	result, err := agg.Search(context.Background(), searchParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProvidersSucceeded != 1 || result.ProvidersFailed != 1 {
		t.Errorf("stats = %d succeeded / %d failed, want 1/1",
			result.ProvidersSucceeded, result.ProvidersFailed)
	}
	if len(result.Hotels) != 1 {
		t.Fatalf("expected 1 hotel from surviving provider, got %d", len(result.Hotels))
	}
}

func TestAggregator_Search_AllProvidersFail(t *testing.T) {
	// One provider down, the other timing out: not an error, just empty.
	agg := newAggregator(t, 200*time.Millisecond,
		&mockProvider{name: "Booking.com", err: errors.New("network down")},
		&mockProvider{name: "Kayak", delay: 2 * time.Second},
	)

	result, err := agg.Search(context.Background(), searchParams())
	if err != nil {
		t.Fatalf("all-providers-fail must not error, got %v", err)
	}
	if len(result.Hotels) != 0 {
		t.Errorf("expected empty result, got %d hotels", len(result.Hotels))
	}
	if result.ProvidersFailed != 2 {
		t.Errorf("ProvidersFailed = %d, want 2", result.ProvidersFailed)
	}
}

func TestAggregator_Search_GarbageFiltered(t *testing.T) {
	agg := newAggregator(t, 2*time.Second,
		&mockProvider{
			name: "Kayak",
			items: []any{
				"not-a-dict",
				42,
				nil,
				rawHotel(map[string]any{"price": "$50"}),
				rawHotel(map[string]any{"name": "Real Hotel", "rating": "4.1"}),
			},
		},
	)

	result, err := agg.Search(context.Background(), searchParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Hotels) != 1 || result.Hotels[0].Name != "Real Hotel" {
		t.Fatalf("expected only Real Hotel to survive, got %v", result.Hotels)
	}
}

func TestAggregator_Search_ProviderPrecedenceBreaksTies(t *testing.T) {
	// Same rating and price from both sources: the first-registered
	// provider's batch sorts first regardless of which reply landed first.
	agg := newAggregator(t, 2*time.Second,
		&mockProvider{
			name:  "Booking.com",
			delay: 50 * time.Millisecond,
			items: []any{rawHotel(map[string]any{"name": "Slow First", "rating": "4.0", "price": "$100"})},
		},
		&mockProvider{
			name:  "Kayak",
			items: []any{rawHotel(map[string]any{"name": "Fast Second", "rating": "4.0", "price": "$100"})},
		},
	)

	result, err := agg.Search(context.Background(), searchParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Hotels[0].Name != "Slow First" {
		t.Errorf("first = %s, want Slow First (provider precedence)", result.Hotels[0].Name)
	}
}

func TestAggregator_Search_ContextCancellation(t *testing.T) {
	agg := newAggregator(t, 10*time.Second,
		&mockProvider{name: "Kayak", delay: 2 * time.Second},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := agg.Search(ctx, searchParams()); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}
