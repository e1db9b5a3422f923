// Package adapter parses heterogeneous position records — freeform text
// lines, ad-hoc JSON, CSV — into the canonical models.Fix stream the
// detector consumes.
package adapter

import (
	"strconv"
	"time"
)

// timestamp heuristic bounds: 946684800 is 2000-01-01T00:00:00Z in seconds,
// 946684800000 the same instant in milliseconds. A numeric value in
// [946684800, 946684800000) is taken as seconds and scaled by 1000; any
// other numeric value is taken as already being milliseconds.
const (
	minPlausibleEpochSeconds = 946684800
	minPlausibleEpochMillis  = 946684800000
)

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts a numeric token (seconds or milliseconds since
// epoch, disambiguated by magnitude) or a civil datetime string, and
// returns milliseconds since epoch.
func ParseTimestamp(token string) (int64, bool) {
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return normalizeNumericTimestamp(n), true
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, token); err == nil {
			return ts.UnixMilli(), true
		}
	}
	return 0, false
}

func normalizeNumericTimestamp(n float64) int64 {
	if n >= minPlausibleEpochSeconds && n < minPlausibleEpochMillis {
		return int64(n * 1000)
	}
	return int64(n)
}

// SyntheticTimestamp fills in a timestamp for a record that lacked one,
// spacing synthesized fixes 1 second apart from a base instant.
func SyntheticTimestamp(base time.Time, index int) int64 {
	return base.UnixMilli() + int64(index)*1000
}
