package simulate

import "github.com/trailwatch/gpsdrift/internal/spatial"

// calculateDriftPoint converts a (distance, bearing) displacement into a
// lat/lng offset from origin. The spec expresses this as a local-tangent
// approximation; spatial.DestinationPoint (already s2-backed, already
// tested) gives the same displacement to the accuracy that matters at the
// scale of a drift anomaly (tens to hundreds of meters), so this is simply
// a thin, named wrapper kept for readability at call sites.
func calculateDriftPoint(lat, lng, distanceMeters, bearingDeg float64) (float64, float64) {
	return spatial.DestinationPoint(lat, lng, bearingDeg, distanceMeters)
}
