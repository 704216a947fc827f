package providers

import (
	"context"
	"fmt"
	"strings"
)

// KayakProvider is the second source. It builds the real Kayak search
// URL but always returns a fixed sample result set; there is no public
// Kayak API to call. The records arrive with price_value and
// rating_normalized already filled in, which the sanitizer and merge
// engine must preserve.
type KayakProvider struct{}

// NewKayakProvider creates a new KayakProvider.
func NewKayakProvider() *KayakProvider {
	return &KayakProvider{}
}

// Name returns the provider name.
func (p *KayakProvider) Name() string { return "Kayak" }

// SearchURL builds the Kayak hotel search URL for the given parameters.
func (p *KayakProvider) SearchURL(params Params) string {
	slug := strings.ToLower(strings.ReplaceAll(params.Location, " ", "-"))
	return fmt.Sprintf("https://www.kayak.com/hotels/%s/%s/%s/%dadults",
		slug, params.CheckInDate(), params.CheckOutDate(), params.Adults)
}

// Fetch returns the sample records with the location folded into the
// hotel names.
func (p *KayakProvider) Fetch(ctx context.Context, params Params) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}
	url := p.SearchURL(params)
	loc := params.Location

	sample := func(name, price string, priceValue float64, rating string, ratingNorm float64, area string, stars int) map[string]any {
		return map[string]any{
			"name":              fmt.Sprintf("%s in %s", name, loc),
			"price":             price,
			"price_value":       priceValue,
			"rating":            rating,
			"rating_normalized": ratingNorm,
			"location":          area,
			"source":            "Kayak",
			"booking_link":      url,
			"stars":             stars,
		}
	}

	return []any{
		sample("Kayak Premium Hotel", "$175/night", 175, "4.5 Excellent", 4.5, "Downtown", 4),
		sample("Kayak Resort & Spa", "$220/night", 220, "4.8 Exceptional", 4.8, "City Center", 5),
		sample("Kayak Budget Inn", "$95/night", 95, "3.8 Good", 3.8, "Suburbs", 3),
		sample("Kayak Grand Hotel", "$185/night", 185, "4.3 Very Good", 4.3, "Historic District", 4),
		sample("Kayak Boutique Hotel", "$165/night", 165, "4.6 Excellent", 4.6, "Arts District", 4),
	}, nil
}
