package spatial

import (
	"math"
	"sort"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// MedianPoint calculates the coordinate-wise median of a set of points:
// lat and lng are sorted and taken from the middle independently, so the
// result need not be one of the input points. Used to build the detector's
// base point, which must resist the outliers that trigger a rebuild.
func MedianPoint(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}
	sort.Float64s(lats)
	sort.Float64s(lons)

	return Point{
		Lat: medianOf(lats),
		Lon: medianOf(lons),
	}
}

func medianOf(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MinTriangleAngle computes the three interior angles of the triangle formed
// by p, q, r via the law of cosines on their pairwise great-circle distances
// and returns the smallest, in degrees. A degenerate triangle (any side of
// length 0) returns 0 — collinearity there is undefined, not "very flat".
func MinTriangleAngle(p, q, r Point) float64 {
	a := HaversineDistance(q.Lat, q.Lon, r.Lat, r.Lon)
	b := HaversineDistance(p.Lat, p.Lon, r.Lat, r.Lon)
	c := HaversineDistance(p.Lat, p.Lon, q.Lat, q.Lon)

	if a == 0 || b == 0 || c == 0 {
		return 0
	}

	angleP := lawOfCosinesAngle(b, c, a)
	angleQ := lawOfCosinesAngle(a, c, b)
	angleR := lawOfCosinesAngle(a, b, c)

	return math.Min(angleP, math.Min(angleQ, angleR))
}

// lawOfCosinesAngle returns the angle opposite side `opposite`, given the
// other two sides of the triangle, in degrees.
func lawOfCosinesAngle(adj1, adj2, opposite float64) float64 {
	cosAngle := (adj1*adj1 + adj2*adj2 - opposite*opposite) / (2 * adj1 * adj2)
	cosAngle = math.Max(-1, math.Min(1, cosAngle))
	return math.Acos(cosAngle) * 180 / math.Pi
}
