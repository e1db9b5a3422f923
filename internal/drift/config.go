package drift

// Config holds the detector's tunable thresholds. It is passed at
// construction and may be partially updated at runtime via SetConfig;
// fields left at their zero value when updating are NOT treated as
// "keep previous" — callers wanting a partial update should start from
// Config() and mutate it.
type Config struct {
	// WindowSize is the number of accepted fixes collected before a base
	// point is first computed, and the rolling window's capacity thereafter.
	WindowSize int

	// ValidityPeriodMs is the age, in fix-clock milliseconds, after which
	// the base point is invalidated and the detector re-enters warmup.
	ValidityPeriodMs int64

	// MaxDriftSequence is the number of consecutive rejections that force
	// an unconditional rebuild.
	MaxDriftSequence int

	// DriftMultiplier scales the base point's radius to obtain the drift
	// threshold: a fix further than DriftMultiplier*radius is a candidate.
	DriftMultiplier float64

	// LinearAngleThresholdDeg is the triangle-angle ceiling below which
	// three buffered rejections are treated as collinear straight-line
	// motion rather than scattered drift.
	LinearAngleThresholdDeg float64

	// FloorRadiusMeters is the minimum radius a base point may have, on
	// every build, regardless of how tight the window's spread is.
	FloorRadiusMeters float64
}

// DefaultConfig returns the spec's default thresholds.
func DefaultConfig() Config {
	return Config{
		WindowSize:              10,
		ValidityPeriodMs:        15000,
		MaxDriftSequence:        10,
		DriftMultiplier:         2.0,
		LinearAngleThresholdDeg: 30.0,
		FloorRadiusMeters:       50.0,
	}
}
