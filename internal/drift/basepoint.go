package drift

import (
	"sort"

	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/spatial"
)

// BasePoint is the detector's moving reference: a derived position with a
// radius and an age, owned exclusively by the detector that built it.
type BasePoint struct {
	Point       spatial.Point
	Radius      float64
	CreatedAtT  int64
	SourceCount int
}

// buildBasePoint derives a base point from window using medianPoint for the
// center and the median-of-distances (clamped to floorRadius) for the
// radius. This variant is used for the initial build and every rebuild —
// medianPoint is robust to exactly the outliers that trigger a rebuild, so
// there is no reason to switch to a plainer estimator later in the
// lifecycle. createdAtT is the timestamp of the fix that triggered the
// (re)build, not a wall-clock capture.
func buildBasePoint(window []models.Fix, createdAtT int64, floorRadius float64) BasePoint {
	points := make([]spatial.Point, len(window))
	for i, f := range window {
		points[i] = spatial.Point{Lat: f.Lat, Lon: f.Lng}
	}

	center := spatial.MedianPoint(points)

	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = spatial.HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon)
	}
	radius := medianFloat(dists)
	if radius < floorRadius {
		radius = floorRadius
	}

	return BasePoint{
		Point:       center,
		Radius:      radius,
		CreatedAtT:  createdAtT,
		SourceCount: len(window),
	}
}

func medianFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
