package providers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Booking.com markup shifts often; each field is tried against the
// current selector first and the older layouts as fallbacks.
const (
	bookingCardSelector         = `div[data-testid="property-card"]`
	bookingCardFallbackSelector = `.sr_property_block`
	bookingNameSelector         = `div[data-testid="title"], .sr-hotel__name, span[data-testid="title"]`
	bookingPriceSelector        = `[data-testid="price-and-discounted-price"], [data-testid="price"], .bui-price-display__value, .prco-valign-middle-helper, [data-testid="price-primary"], .bui-f-color-constructive, .prco-inline-block-maker-helper, div[data-testid="price-per-night"]`
	bookingRatingSelector       = `div[data-testid="review-score"], div[data-testid="rating"], div[aria-label*="Scored"], .bui-review-score__badge, .review-score-badge`
)

var (
	priceDigitsRe  = regexp.MustCompile(`[\d,]+`)
	ratingNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// parseBookingResults extracts raw hotel records from a rendered
// Booking.com results page. Records keep the untyped map shape all
// providers emit; sanitization happens downstream. A card is kept only
// when it has a name and at least a price or a rating.
func parseBookingResults(html, searchURL string) []any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	cards := doc.Find(bookingCardSelector)
	if cards.Length() == 0 {
		cards = doc.Find(bookingCardFallbackSelector)
	}

	var hotels []any
	cards.Each(func(_ int, card *goquery.Selection) {
		rec := map[string]any{
			"source":       "Booking.com",
			"booking_link": searchURL,
		}

		name := strings.TrimSpace(card.Find(bookingNameSelector).First().Text())
		if name != "" {
			rec["name"] = name
		}

		if price := extractBookingPrice(card.Find(bookingPriceSelector).First().Text()); price != "" {
			rec["price"] = price
		}
		if rating := extractBookingRating(card.Find(bookingRatingSelector).First().Text()); rating != "" {
			rec["rating"] = rating
		}

		if name == "" {
			return
		}
		if _, hasPrice := rec["price"]; !hasPrice {
			if _, hasRating := rec["rating"]; !hasRating {
				return
			}
		}
		hotels = append(hotels, rec)
	})

	return hotels
}

// extractBookingPrice pulls the first digit run out of messy price text
// and reformats it the way the site displays it, e.g. "₹12,345".
// Unparseable text is passed through untouched so the price normalizer
// can still reject it consistently.
func extractBookingPrice(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	m := priceDigitsRe.FindString(text)
	if m == "" {
		return text
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return text
	}
	return "₹" + groupThousands(v)
}

// extractBookingRating reduces rating badge text like "8.6 Fabulous
// 2,148 reviews" to the canonical "Scored 8.6" form.
func extractBookingRating(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	m := ratingNumberRe.FindString(text)
	if m == "" {
		return text
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return text
	}
	return "Scored " + strconv.FormatFloat(v, 'f', -1, 64)
}

// groupThousands renders v as an integer with comma separators.
func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
