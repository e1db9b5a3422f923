package adapter

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// ParseFromString parses one fix per line. Tokens are separated by any of
// comma, tab, semicolon or space; the first two numeric tokens are lat,
// lng, and an optional third is the timestamp. Blank lines and lines
// starting with # or // are skipped. A line with an out-of-range
// coordinate is skipped with a warning rather than aborting the parse.
func ParseFromString(text string) []models.Fix {
	lines := strings.Split(text, "\n")
	fixes := make([]models.Fix, 0, len(lines))
	base := time.Now()

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == '\t' || r == ';' || r == ' '
		})
		if len(tokens) < 2 {
			log.Printf("adapter: skipping malformed line %d: %q", i+1, line)
			continue
		}

		lat, err1 := strconv.ParseFloat(tokens[0], 64)
		lng, err2 := strconv.ParseFloat(tokens[1], 64)
		if err1 != nil || err2 != nil {
			log.Printf("adapter: skipping non-numeric line %d: %q", i+1, line)
			continue
		}

		f := models.Fix{Lat: lat, Lng: lng}
		if len(tokens) >= 3 {
			if ts, ok := ParseTimestamp(tokens[2]); ok {
				f.T = ts
			} else {
				f.T = SyntheticTimestamp(base, len(fixes))
			}
		} else {
			f.T = SyntheticTimestamp(base, len(fixes))
		}

		if !f.Valid() {
			log.Printf("adapter: skipping out-of-range line %d: %q", i+1, line)
			continue
		}
		fixes = append(fixes, f)
	}

	return fixes
}
