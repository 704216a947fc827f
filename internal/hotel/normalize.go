package hotel

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultRating is assigned when a record carries no parseable rating.
const DefaultRating = 3.0

var ratingNumber = regexp.MustCompile(`\d+\.?\d*`)

// NormalizeRating converts raw source rating text onto a 0-5 scale.
// The first decimal number found is taken as the rating; values above 5
// are assumed to be on a 10-point scale and halved. A value like "8" is
// always halved even if the source meant a 5-point outlier, and a
// literal "4.5 out of 5" is never halved. That ambiguity is accepted:
// downstream ordering depends on these exact thresholds.
func NormalizeRating(raw string) float64 {
	m := ratingNumber.FindString(raw)
	if m == "" {
		return DefaultRating
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return DefaultRating
	}
	if v > 5 {
		return v / 2
	}
	return v
}

// NormalizePrice converts raw price text ("$175/night", "₹12,345") into
// a comparable number by stripping everything that is not a digit or a
// decimal point. Unparseable or empty input yields +Inf so the record
// sorts last. Currencies are not converted; cross-currency prices
// compare as raw numbers, a known limitation.
func NormalizePrice(raw string) float64 {
	if raw == "" {
		return math.Inf(1)
	}
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return math.Inf(1)
	}
	return v
}

// Normalize returns a copy of rec with RatingNormalized and PriceValue
// filled in. Fields that are already set are left untouched, so applying
// Normalize twice is a no-op. The input record is not mutated.
func Normalize(rec Record) Record {
	if rec.RatingNormalized == nil {
		v := NormalizeRating(rec.Rating)
		rec.RatingNormalized = &v
	}
	if rec.PriceValue == nil && rec.Price != "" {
		v := NormalizePrice(rec.Price)
		rec.PriceValue = &v
	}
	return rec
}
