package adapter

import "fmt"

var latKeys = []string{"lat", "latitude", "latitude1", "y"}
var lngKeys = []string{"lng", "lon", "longitude", "longitude1", "x"}
var timestampKeys = []string{"timestamp", "time", "currentTime", "date", "datetime"}

// firstPresentFloat returns the numeric value of the first key in order
// that is present in obj and convertible to float64.
func firstPresentFloat(obj map[string]interface{}, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

// firstPresentTimestamp returns the first key in order whose value is
// present, converted to a parseable token string.
func firstPresentTimestamp(obj map[string]interface{}) (string, bool) {
	for _, k := range timestampKeys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, ok := parseFloatLenient(n)
		return f, ok
	default:
		return 0, false
	}
}

func parseFloatLenient(s string) (float64, bool) {
	var f float64
	n, err := fmt.Sscanf(s, "%g", &f)
	if err != nil || n != 1 {
		return 0, false
	}
	return f, true
}
