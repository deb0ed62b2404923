package review

import "mozart/internal/criteria"

// Average computes the mean score of a record over a criteria selection.
//
// With a non-empty selection only the selected criteria are considered, and
// a criterion absent from the record's scores is skipped, not counted as
// zero. With an empty selection every numeric score present is averaged.
// Non-numeric score values are ignored. When nothing qualifies the average
// is 0.0 by convention.
func Average(rec Record, sel criteria.Selection) float64 {
	if len(rec.Scores) == 0 {
		return 0.0
	}

	if !sel.IsEmpty() {
		var sum float64
		var n int
		for _, key := range sel.Keys() {
			if v, ok := numeric(rec.Scores[key]); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			return sum / float64(n)
		}
		return 0.0
	}

	var sum float64
	var n int
	for _, v := range rec.Scores {
		if f, ok := numeric(v); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// Score returns the numeric score for a criterion key, if present.
func (r Record) Score(key string) (float64, bool) {
	return numeric(r.Scores[criteria.Normalize(key)])
}

// numeric extracts a float from a decoded JSON score value. JSON numbers
// decode as float64; int covers records built directly in code.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
