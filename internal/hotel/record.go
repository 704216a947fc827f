// Package hotel defines the hotel record shape shared by all providers
// and the normalization rules that make heterogeneous source data
// comparable.
package hotel

import (
	"encoding/json"
	"math"
)

// Record is a single hotel result. Providers emit records with only the
// raw string fields set; PriceValue and RatingNormalized stay nil until
// Normalize computes them, and Rank is assigned only by the merge engine.
type Record struct {
	Name             string   `json:"name"`
	Price            string   `json:"price,omitempty"`
	PriceValue       *float64 `json:"price_value,omitempty"`
	Rating           string   `json:"rating,omitempty"`
	RatingNormalized *float64 `json:"rating_normalized,omitempty"`
	RatingDisplay    string   `json:"rating_display,omitempty"`
	Location         string   `json:"location,omitempty"`
	Stars            int      `json:"stars,omitempty"`
	Source           string   `json:"source"`
	BookingLink      string   `json:"booking_link,omitempty"`
	Rank             int      `json:"rank,omitempty"`
}

// SortPrice returns the comparable price for ordering. A record whose
// price was never computed or could not be parsed sorts last.
func (r Record) SortPrice() float64 {
	if r.PriceValue == nil {
		return math.Inf(1)
	}
	return *r.PriceValue
}

// SortRating returns the comparable rating for ordering, 0 when the
// record was never normalized.
func (r Record) SortRating() float64 {
	if r.RatingNormalized == nil {
		return 0
	}
	return *r.RatingNormalized
}

// MarshalJSON drops a non-finite PriceValue, which is the in-memory
// sentinel for "price unknown" and has no JSON representation.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	a := alias(r)
	if a.PriceValue != nil && math.IsInf(*a.PriceValue, 0) {
		a.PriceValue = nil
	}
	return json.Marshal(a)
}
