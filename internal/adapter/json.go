package adapter

import (
	"encoding/json"
	"log"
	"time"

	"github.com/trailwatch/gpsdrift/internal/models"
)

var arrayKeyFallbacks = []string{"points", "data", "locations", "coordinates", "trajectory", "path"}

// LoadFromJSON parses raw into a Fix stream. raw must be either a JSON
// array of fix-like objects, or a JSON object containing such an array
// under one of arrayKeyFallbacks (first key present wins). When that key is
// "data" and data[0] carries a "locations" array, directly or under
// "section", the nested data[0].locations or data[0].section.locations
// array is used instead.
func LoadFromJSON(raw []byte) ([]models.Fix, error) {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	candidates := extractCandidateArray(generic)
	return fixesFromCandidates(candidates), nil
}

func extractCandidateArray(v interface{}) []interface{} {
	switch val := v.(type) {
	case []interface{}:
		return val
	case map[string]interface{}:
		for _, key := range arrayKeyFallbacks {
			if arr, ok := val[key].([]interface{}); ok {
				if key == "data" && len(arr) > 0 {
					if first, ok := arr[0].(map[string]interface{}); ok {
						_, hasLocs := first["locations"].([]interface{})
						section, _ := first["section"].(map[string]interface{})
						_, hasSectionLocs := section["locations"].([]interface{})
						if hasLocs || hasSectionLocs {
							break
						}
					}
				}
				return arr
			}
		}
		if data, ok := val["data"].([]interface{}); ok && len(data) > 0 {
			if first, ok := data[0].(map[string]interface{}); ok {
				if locs, ok := first["locations"].([]interface{}); ok {
					return locs
				}
				if section, ok := first["section"].(map[string]interface{}); ok {
					if locs, ok := section["locations"].([]interface{}); ok {
						return locs
					}
				}
			}
		}
	}
	return nil
}

func fixesFromCandidates(candidates []interface{}) []models.Fix {
	base := time.Now()
	fixes := make([]models.Fix, 0, len(candidates))

	for i, c := range candidates {
		obj, ok := c.(map[string]interface{})
		if !ok {
			log.Printf("adapter: skipping non-object JSON candidate at index %d", i)
			continue
		}

		lat, latOK := firstPresentFloat(obj, latKeys)
		lng, lngOK := firstPresentFloat(obj, lngKeys)
		if !latOK || !lngOK {
			log.Printf("adapter: skipping JSON candidate at index %d: missing lat/lng", i)
			continue
		}

		f := models.Fix{Lat: lat, Lng: lng}
		if token, ok := firstPresentTimestamp(obj); ok {
			if ts, ok := ParseTimestamp(token); ok {
				f.T = ts
			} else {
				f.T = SyntheticTimestamp(base, i)
			}
		} else {
			f.T = SyntheticTimestamp(base, i)
		}

		if !f.Valid() {
			log.Printf("adapter: skipping out-of-range JSON candidate at index %d", i)
			continue
		}
		fixes = append(fixes, f)
	}

	return fixes
}
