package hotel

import "encoding/json"

// Sanitize filters a provider's raw output down to well-formed records.
// Providers return untyped values straight off the wire or out of a
// scrape, so entries that are not field maps, or that lack a non-empty
// name, are dropped silently: a provider returning garbage degrades to
// "no results from that provider", never an error. The provider
// identifier is stamped into Source only when the record did not already
// declare one. Rank and the normalized numeric fields are not touched
// here; that happens downstream in the merge engine.
func Sanitize(items []any, source string) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(m, "name")
		if name == "" {
			continue
		}
		rec := Record{
			Name:          name,
			Price:         stringField(m, "price"),
			Rating:        stringField(m, "rating"),
			RatingDisplay: stringField(m, "rating_display"),
			Location:      stringField(m, "location"),
			Stars:         intField(m, "stars"),
			Source:        stringField(m, "source"),
			BookingLink:   stringField(m, "booking_link"),
		}
		if v, ok := floatField(m, "price_value"); ok {
			rec.PriceValue = &v
		}
		if v, ok := floatField(m, "rating_normalized"); ok {
			rec.RatingNormalized = &v
		}
		if rec.Source == "" {
			rec.Source = source
		}
		records = append(records, rec)
	}
	return records
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// floatField tolerates the numeric shapes providers actually produce:
// native floats and ints in-process, json.Number from decoded payloads.
func floatField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func intField(m map[string]any, key string) int {
	f, ok := floatField(m, key)
	if !ok {
		return 0
	}
	return int(f)
}
