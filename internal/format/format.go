// Package format renders ranked hotel sequences as human-readable text.
// Both renderers are pure functions of their input.
package format

import (
	"fmt"
	"strings"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
)

const (
	// NoHotelsDigest is returned by Digest for empty input.
	NoHotelsDigest = "No hotels found to summarize."
	// NoHotelsListing is returned by Listing for empty input.
	NoHotelsListing = "No hotels found matching your criteria."

	digestLimit = 10

	// tenPointSource rates on a 10-point scale, so its listing entries
	// show the raw score alongside the normalized one.
	tenPointSource = "Booking.com"
)

// Digest renders the top 10 records in their existing rank order, one
// line per hotel.
func Digest(records []hotel.Record) string {
	if len(records) == 0 {
		return NoHotelsDigest
	}

	top := records
	if len(top) > digestLimit {
		top = top[:digestLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Hotels (sorted by rating):\n", len(top))
	for i, rec := range top {
		price := rec.Price
		if price == "" {
			price = "N/A"
		}
		fmt.Fprintf(&b, "%d. %s | %s | Rating: %s | Source: %s\n",
			i+1, rec.Name, price, ratingText(rec), rec.Source)
	}
	return b.String()
}

// Listing renders every record in full. A non-empty source filters the
// listing to that provider. Records from the 10-point-scale provider
// show both the raw score and the normalized value.
func Listing(records []hotel.Record, source string) string {
	var shown []hotel.Record
	for _, rec := range records {
		if source != "" && rec.Source != source {
			continue
		}
		shown = append(shown, rec)
	}
	if len(shown) == 0 {
		return NoHotelsListing
	}

	var b strings.Builder
	b.WriteString("Here are the best hotel options I found:\n\n")
	for _, rec := range shown {
		fmt.Fprintf(&b, "%s (%s)\n", rec.Name, rec.Source)

		price := rec.Price
		if price == "" {
			price = "Price not available"
		}
		fmt.Fprintf(&b, "  Price: %s\n", price)

		if line := listingRating(rec); line != "" {
			fmt.Fprintf(&b, "  Rating: %s\n", line)
		}
		if rec.Stars > 0 {
			fmt.Fprintf(&b, "  Stars: %d\n", rec.Stars)
		}
		if rec.Location != "" {
			fmt.Fprintf(&b, "  Area: %s\n", rec.Location)
		}
		if rec.BookingLink != "" {
			fmt.Fprintf(&b, "  Book: %s\n", rec.BookingLink)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ratingText picks the digest rating string: a source-provided display
// value wins, then the raw rating text, then the normalized score.
func ratingText(rec hotel.Record) string {
	if rec.RatingDisplay != "" {
		return rec.RatingDisplay
	}
	if rec.Rating != "" {
		return rec.Rating
	}
	if rec.RatingNormalized != nil {
		return fmt.Sprintf("%.1f/5", *rec.RatingNormalized)
	}
	return "No rating"
}

func listingRating(rec hotel.Record) string {
	if rec.Rating != "" {
		if rec.Source == tenPointSource && rec.RatingNormalized != nil {
			return fmt.Sprintf("%s (%.1f/5 normalized)", rec.Rating, *rec.RatingNormalized)
		}
		return rec.Rating
	}
	if rec.RatingNormalized != nil {
		return fmt.Sprintf("%.1f/5", *rec.RatingNormalized)
	}
	return ""
}
