package hotel_test

import (
	"math"
	"testing"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"five point scale passthrough", "4.5 Excellent", 4.5},
		{"ten point scale halved", "9 Great", 4.5},
		{"booking style score", "Scored 8.6", 4.3},
		{"bare integer above five halved", "8", 4.0},
		{"bare four never halved", "4.0", 4.0},
		{"boundary five not halved", "5", 5.0},
		{"no number defaults", "Excellent", 3.0},
		{"empty defaults", "", 3.0},
		{"number embedded in text", "Rated 3.8 by guests", 3.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hotel.NormalizeRating(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeRating(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got < 0 || got > 5 {
				t.Errorf("NormalizeRating(%q) = %v, outside [0,5]", tt.raw, got)
			}
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"dollar per night", "$175/night", 175},
		{"rupee with thousands separator", "₹12,345", 12345},
		{"prefixed currency with cents", "US$1,299.50", 1299.50},
		{"plain number", "95", 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hotel.NormalizePrice(tt.raw); got != tt.want {
				t.Errorf("NormalizePrice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizePrice_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "Call for price", "..", "$..."} {
		if got := hotel.NormalizePrice(raw); !math.IsInf(got, 1) {
			t.Errorf("NormalizePrice(%q) = %v, want +Inf", raw, got)
		}
	}
}

func TestNormalize_FillsComputedFields(t *testing.T) {
	rec := hotel.Normalize(hotel.Record{Name: "A", Rating: "9 Great", Price: "$100"})

	if rec.RatingNormalized == nil || *rec.RatingNormalized != 4.5 {
		t.Errorf("RatingNormalized = %v, want 4.5", rec.RatingNormalized)
	}
	if rec.PriceValue == nil || *rec.PriceValue != 100 {
		t.Errorf("PriceValue = %v, want 100", rec.PriceValue)
	}
}

func TestNormalize_DefaultsWithoutRawFields(t *testing.T) {
	rec := hotel.Normalize(hotel.Record{Name: "A"})

	if rec.RatingNormalized == nil || *rec.RatingNormalized != hotel.DefaultRating {
		t.Errorf("RatingNormalized = %v, want default %v", rec.RatingNormalized, hotel.DefaultRating)
	}
	// No raw price at all: PriceValue stays unset and sorts last.
	if rec.PriceValue != nil {
		t.Errorf("PriceValue = %v, want nil", *rec.PriceValue)
	}
	if !math.IsInf(rec.SortPrice(), 1) {
		t.Errorf("SortPrice() = %v, want +Inf", rec.SortPrice())
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	pv, rn := 220.0, 4.8
	rec := hotel.Record{
		Name:             "Prefilled",
		Price:            "$999/night",
		Rating:           "1.0 Bad",
		PriceValue:       &pv,
		RatingNormalized: &rn,
	}

	got := hotel.Normalize(hotel.Normalize(rec))

	if *got.PriceValue != 220.0 {
		t.Errorf("PriceValue = %v, want prefilled 220 to survive", *got.PriceValue)
	}
	if *got.RatingNormalized != 4.8 {
		t.Errorf("RatingNormalized = %v, want prefilled 4.8 to survive", *got.RatingNormalized)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := hotel.Record{Name: "A", Rating: "4.2", Price: "$50"}
	_ = hotel.Normalize(in)

	if in.RatingNormalized != nil || in.PriceValue != nil {
		t.Error("Normalize mutated its input record")
	}
}
