// Package simulate generates synthetic drift anomalies over a clean
// baseline trajectory, producing both the corrupted fix stream and the
// ground-truth markers used to evaluate the detector in internal/drift.
package simulate

// DriftBand is one piece of a piecewise drift-distance distribution: with
// probability Ratio, a drawn distance falls in [Min, Max] meters.
type DriftBand struct {
	Ratio float64
	Min   float64
	Max   float64
}

// Config enumerates the anomaly taxonomy's parameters. Counts are numbers
// of anomaly instances to schedule; ranges/bands govern per-fix magnitude.
type Config struct {
	StaticDriftCount    int
	MovingDriftCount    int
	TunnelCount         int
	SpeedScenarioCount  int

	// StaticDriftPositionCount is the number of fabricated fixes ("N")
	// inserted per static-drift cluster.
	StaticDriftPositionCount int

	// DriftDistanceRange is the fallback uniform range used when
	// DriftDistribution is empty.
	DriftDistanceRange [2]float64

	// DriftDistribution is a piecewise probability distribution over
	// displacement magnitude. Bands' Ratio fields should sum to 1; if empty,
	// DriftDistanceRange is used instead.
	DriftDistribution []DriftBand

	// SpeedScenarioLateralAmplitude, when > 0, overlays a periodic lateral
	// displacement of this magnitude (meters) onto kept fixes of a speed
	// scenario's straight chunks, every SpeedScenarioLateralPeriod fixes.
	SpeedScenarioLateralAmplitude float64
	SpeedScenarioLateralPeriod    int

	// StraightRunAngleToleranceDeg is the maximum bearing disagreement
	// (degrees) between consecutive segments of a six-point run for it to
	// be treated as a straight high-speed run eligible for under-sampling.
	StraightRunAngleToleranceDeg float64
}

// DefaultConfig returns a reasonable default anomaly mix for building a
// detector evaluation corpus.
func DefaultConfig() Config {
	return Config{
		StaticDriftCount:         2,
		MovingDriftCount:         2,
		TunnelCount:              1,
		SpeedScenarioCount:       1,
		StaticDriftPositionCount: 5,
		DriftDistanceRange:       [2]float64{50, 500},
		DriftDistribution: []DriftBand{
			{Ratio: 0.6, Min: 50, Max: 150},
			{Ratio: 0.3, Min: 150, Max: 300},
			{Ratio: 0.1, Min: 300, Max: 500},
		},
		StraightRunAngleToleranceDeg: 10,
	}
}
