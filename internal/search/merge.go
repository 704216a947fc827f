// Package search combines sanitized provider batches into one ranked
// result set and drives the optional fetch-more rounds.
package search

import (
	"sort"

	"github.com/kthandra777/hotelfinder-pro/internal/hotel"
)

// Result represents an aggregated, ranked search outcome.
type Result struct {
	Hotels             []hotel.Record `json:"hotels"`
	ProvidersTotal     int            `json:"-"`
	ProvidersSucceeded int            `json:"-"`
	ProvidersFailed    int            `json:"-"`
	Rounds             int            `json:"-"`
}

// MergeAndRank folds one sanitized batch per provider into a single
// ranked sequence. Batches are concatenated in argument order, which is
// the declared provider precedence: purely positional, not a quality
// judgment, but it is what breaks ties. Every record comes out with
// rating and price normalized and a contiguous 1-based rank.
func MergeAndRank(batches ...[]hotel.Record) []hotel.Record {
	var merged []hotel.Record
	for _, batch := range batches {
		for _, rec := range batch {
			merged = append(merged, hotel.Normalize(rec))
		}
	}
	SortAndRank(merged)
	return merged
}

// SortAndRank orders records by rating descending then price ascending
// and reassigns ranks. The sort is stable: records with equal keys keep
// their prior relative order. Every re-sort invalidates old ranks, so
// they are always recomputed here.
func SortAndRank(records []hotel.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i].SortRating(), records[j].SortRating()
		if ri != rj {
			return ri > rj
		}
		return records[i].SortPrice() < records[j].SortPrice()
	})
	for i := range records {
		records[i].Rank = i + 1
	}
}
