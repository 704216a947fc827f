// Package providers contains the hotel data sources: a scripted-browser
// scrape of Booking.com, a Kayak stub, and a generic JSON-over-HTTP
// adapter for additional feeds.
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider is a single hotel data source. Fetch returns raw, untyped
// records; callers must run them through hotel.Sanitize before use.
// A provider may block for seconds (network or browser round-trips) and
// may return arbitrary partial or malformed output.
type Provider interface {
	// Name is the source identifier stamped into records ("Kayak",
	// "Booking.com").
	Name() string

	// Fetch searches for hotels matching params.
	Fetch(ctx context.Context, params Params) ([]any, error)
}

// ErrProviderUnavailable is returned when a provider is unavailable.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Credentials hold per-request secrets for sources that need them.
// They are passed explicitly with each search rather than read from
// process-global environment, so concurrent searches cannot leak
// credentials into each other.
type Credentials struct {
	APIKey    string
	ProjectID string
}

// Params are the search parameters shared by every provider.
type Params struct {
	Location    string
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      int
	Credentials Credentials
}

// Validate reports whether the parameters describe a runnable search.
func (p Params) Validate() error {
	if p.Location == "" {
		return fmt.Errorf("location is required")
	}
	if p.Adults < 1 {
		return fmt.Errorf("adults must be a positive integer")
	}
	if p.CheckOut.Before(p.CheckIn) {
		return fmt.Errorf("check_out must not be before check_in")
	}
	return nil
}

const dateLayout = "2006-01-02"

// CheckInDate returns the check-in date in YYYY-MM-DD form.
func (p Params) CheckInDate() string { return p.CheckIn.Format(dateLayout) }

// CheckOutDate returns the check-out date in YYYY-MM-DD form.
func (p Params) CheckOutDate() string { return p.CheckOut.Format(dateLayout) }
