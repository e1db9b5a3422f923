package adapter

import (
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// LoadFromCSV reads a header row of lat,lng,timestamp[,spd,alt,cog] and
// one record per subsequent row, applying the same field-presence and
// range rules as the other adapters.
func LoadFromCSV(r io.Reader) ([]models.ExtendedFix, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	base := time.Now()
	var fixes []models.ExtendedFix
	rowIndex := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fixes, err
		}
		rowIndex++

		f, ok := parseCSVRow(row, col, base, rowIndex-1)
		if !ok {
			log.Printf("adapter: skipping malformed CSV row %d", rowIndex)
			continue
		}
		fixes = append(fixes, f)
	}

	return fixes, nil
}

func parseCSVRow(row []string, col map[string]int, base time.Time, index int) (models.ExtendedFix, bool) {
	lat, latOK := csvFloat(row, col, "lat")
	lng, lngOK := csvFloat(row, col, "lng")
	if !latOK || !lngOK {
		return models.ExtendedFix{}, false
	}

	f := models.Fix{Lat: lat, Lng: lng}
	if idx, ok := col["timestamp"]; ok && idx < len(row) && row[idx] != "" {
		if ts, ok := ParseTimestamp(row[idx]); ok {
			f.T = ts
		} else {
			f.T = SyntheticTimestamp(base, index)
		}
	} else {
		f.T = SyntheticTimestamp(base, index)
	}
	if !f.Valid() {
		return models.ExtendedFix{}, false
	}

	ext := models.ExtendedFix{Fix: f}
	if v, ok := csvFloat(row, col, "spd"); ok {
		ext.Speed = &v
	}
	if v, ok := csvFloat(row, col, "alt"); ok {
		ext.Altitude = &v
	}
	if v, ok := csvFloat(row, col, "cog"); ok {
		ext.Course = &v
	}
	return ext, true
}

func csvFloat(row []string, col map[string]int, name string) (float64, bool) {
	idx, ok := col[name]
	if !ok || idx >= len(row) || row[idx] == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
