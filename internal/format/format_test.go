package format_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kthandra777/hotelfinder-pro/internal/format"
	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
	"github.com/kthandra777/hotelfinder-pro/internal/search"
)

func ranked(records ...hotel.Record) []hotel.Record {
	out := make([]hotel.Record, len(records))
	copy(out, records)
	search.SortAndRank(out)
	return out
}

func TestDigest_Empty(t *testing.T) {
	if got := format.Digest(nil); got != format.NoHotelsDigest {
		t.Errorf("Digest(nil) = %q, want %q", got, format.NoHotelsDigest)
	}
	if got := format.Digest([]hotel.Record{}); got != format.NoHotelsDigest {
		t.Errorf("Digest(empty) = %q, want %q", got, format.NoHotelsDigest)
	}
}

func TestDigest_CapsAtTen(t *testing.T) {
	var records []hotel.Record
	for i := 0; i < 12; i++ {
		records = append(records, hotel.Normalize(hotel.Record{
			Name:   fmt.Sprintf("Hotel %02d", i),
			Rating: "4.0",
			Source: "Kayak",
		}))
	}
	records = ranked(records...)

	got := format.Digest(records)
	if !strings.Contains(got, "Top 10 Hotels") {
		t.Errorf("digest header missing: %q", got)
	}
	if strings.Count(got, "| Source:") != 10 {
		t.Errorf("expected 10 digest lines, got %d", strings.Count(got, "| Source:"))
	}
}

func TestDigest_RatingPreference(t *testing.T) {
	norm := 4.3
	records := []hotel.Record{
		{Name: "Display Wins", RatingDisplay: "4.5/5 Excellent", Rating: "Scored 9", Source: "Booking.com", Rank: 1},
		{Name: "Raw Next", Rating: "Scored 8.6", RatingNormalized: &norm, Source: "Booking.com", Rank: 2},
		{Name: "Computed Last", RatingNormalized: &norm, Source: "Kayak", Rank: 3},
	}

	got := format.Digest(records)
	if !strings.Contains(got, "Display Wins | N/A | Rating: 4.5/5 Excellent") {
		t.Errorf("rating_display not preferred:\n%s", got)
	}
	if !strings.Contains(got, "Raw Next | N/A | Rating: Scored 8.6") {
		t.Errorf("raw rating not used:\n%s", got)
	}
	if !strings.Contains(got, "Computed Last | N/A | Rating: 4.3/5") {
		t.Errorf("normalized fallback not used:\n%s", got)
	}
}

func TestDigest_UsesExistingRankOrder(t *testing.T) {
	// Digest must not reorder; it trusts the ranks it was given.
	records := []hotel.Record{
		{Name: "Second Best", Rating: "4.0", Source: "Kayak", Rank: 1},
		{Name: "Best", Rating: "4.9", Source: "Kayak", Rank: 2},
	}

	got := format.Digest(records)
	if !strings.Contains(got, "1. Second Best") || !strings.Contains(got, "2. Best") {
		t.Errorf("digest reordered its input:\n%s", got)
	}
}

func TestListing_Empty(t *testing.T) {
	if got := format.Listing(nil, ""); got != format.NoHotelsListing {
		t.Errorf("Listing(nil) = %q, want %q", got, format.NoHotelsListing)
	}
}

func TestListing_TenPointSourceShowsNormalized(t *testing.T) {
	records := ranked(
		hotel.Record{Name: "Scraped", Rating: "Scored 8.6", Source: "Booking.com"},
		hotel.Record{Name: "Stubbed", Rating: "4.6 Excellent", Source: "Kayak", Stars: 4, Location: "Downtown", BookingLink: "https://example.com"},
	)

	got := format.Listing(records, "")
	if !strings.Contains(got, "Scored 8.6 (4.3/5 normalized)") {
		t.Errorf("booking.com rating line missing normalized value:\n%s", got)
	}
	// Five-point sources show the raw text only.
	if !strings.Contains(got, "Rating: 4.6 Excellent\n") {
		t.Errorf("kayak rating line wrong:\n%s", got)
	}
	for _, want := range []string{"Stars: 4", "Area: Downtown", "Book: https://example.com"} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q:\n%s", want, got)
		}
	}
}

func TestListing_SourceFilter(t *testing.T) {
	records := ranked(
		hotel.Record{Name: "From Booking", Rating: "Scored 8", Source: "Booking.com"},
		hotel.Record{Name: "From Kayak", Rating: "4.0", Source: "Kayak"},
	)

	got := format.Listing(records, "Kayak")
	if strings.Contains(got, "From Booking") {
		t.Errorf("filter leaked other sources:\n%s", got)
	}
	if !strings.Contains(got, "From Kayak") {
		t.Errorf("filtered source missing:\n%s", got)
	}

	// A filter matching nothing falls back to the fixed message.
	if got := format.Listing(records, "Expedia"); got != format.NoHotelsListing {
		t.Errorf("Listing with unmatched filter = %q, want %q", got, format.NoHotelsListing)
	}
}

func TestListing_DoesNotMutateInput(t *testing.T) {
	records := ranked(hotel.Record{Name: "A", Rating: "4.0", Source: "Kayak"})
	before := records[0]
	_ = format.Listing(records, "")
	_ = format.Digest(records)
	if records[0] != before {
		t.Error("formatter mutated its input")
	}
}
