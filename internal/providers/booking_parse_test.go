package providers

import (
	"testing"
)

const bookingFixture = `
<html><body>
<div data-testid="property-card">
  <div data-testid="title">Grand Palace Hotel</div>
  <span data-testid="price-and-discounted-price">₹ 12,345 per night</span>
  <div data-testid="review-score">8.6 Fabulous 2,148 reviews</div>
</div>
<div data-testid="property-card">
  <div data-testid="title">Riverside Inn</div>
  <div aria-label="Scored 7.2" data-testid="rating">7.2 Good</div>
</div>
<div data-testid="property-card">
  <div data-testid="title">No Price No Rating Lodge</div>
</div>
<div data-testid="property-card">
  <span data-testid="price">$980</span>
</div>
</body></html>`

func TestParseBookingResults(t *testing.T) {
	url := "https://www.booking.com/searchresults.html?ss=test"
	got := parseBookingResults(bookingFixture, url)

	// Card three has no price or rating, card four has no name.
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	first := got[0].(map[string]any)
	if first["name"] != "Grand Palace Hotel" {
		t.Errorf("name = %v, want Grand Palace Hotel", first["name"])
	}
	if first["price"] != "₹12,345" {
		t.Errorf("price = %v, want ₹12,345", first["price"])
	}
	if first["rating"] != "Scored 8.6" {
		t.Errorf("rating = %v, want Scored 8.6", first["rating"])
	}
	if first["source"] != "Booking.com" || first["booking_link"] != url {
		t.Errorf("source/link not stamped: %v", first)
	}

	second := got[1].(map[string]any)
	if second["name"] != "Riverside Inn" {
		t.Errorf("name = %v, want Riverside Inn", second["name"])
	}
	if second["rating"] != "Scored 7.2" {
		t.Errorf("rating = %v, want Scored 7.2", second["rating"])
	}
	if _, hasPrice := second["price"]; hasPrice {
		t.Error("second record should have no price")
	}
}

func TestParseBookingResults_LegacyMarkup(t *testing.T) {
	html := `
<div class="sr_property_block">
  <span class="sr-hotel__name"> Old Layout Hotel </span>
  <div class="bui-price-display__value">€450</div>
  <div class="bui-review-score__badge">9</div>
</div>`

	got := parseBookingResults(html, "u")
	if len(got) != 1 {
		t.Fatalf("expected 1 record from legacy markup, got %d", len(got))
	}
	rec := got[0].(map[string]any)
	if rec["name"] != "Old Layout Hotel" {
		t.Errorf("name = %v", rec["name"])
	}
	if rec["price"] != "₹450" {
		t.Errorf("price = %v, want ₹450", rec["price"])
	}
	if rec["rating"] != "Scored 9" {
		t.Errorf("rating = %v, want Scored 9", rec["rating"])
	}
}

func TestParseBookingResults_EmptyPage(t *testing.T) {
	if got := parseBookingResults("<html><body></body></html>", "u"); len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestBookingProvider_SearchURL(t *testing.T) {
	p := NewBookingProvider(DefaultBookingOptions(), discardLogger())
	got := p.SearchURL(testParams(t))
	want := "https://www.booking.com/searchresults.html?ss=new-york&checkin_year_month_monthday=2026-09-01&checkout_year_month_monthday=2026-09-03&group_adults=2"
	if got != want {
		t.Errorf("SearchURL = %q, want %q", got, want)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.in); got != tt.want {
			t.Errorf("groupThousands(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
