package simulate

import (
	"math"
	"math/rand"

	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/spatial"
)

func drawDriftDistance(cfg Config, rng *rand.Rand) float64 {
	if len(cfg.DriftDistribution) == 0 {
		return uniform(rng, cfg.DriftDistanceRange[0], cfg.DriftDistanceRange[1])
	}

	roll := rng.Float64()
	cum := 0.0
	for _, band := range cfg.DriftDistribution {
		cum += band.Ratio
		if roll <= cum {
			return uniform(rng, band.Min, band.Max)
		}
	}
	last := cfg.DriftDistribution[len(cfg.DriftDistribution)-1]
	return uniform(rng, last.Min, last.Max)
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// applyStaticDrift fabricates a cluster of fixes scattered around anchor,
// simulating a stationary receiver under multipath. Timestamps are
// synthesized at 1ms offsets from the anchor so the global sort-by-time
// pass places them adjacent to it without colliding.
func applyStaticDrift(anchor models.Fix, cfg Config, rng *rand.Rand) []models.Fix {
	n := cfg.StaticDriftPositionCount
	if n < 1 {
		n = 1
	}
	fixes := make([]models.Fix, n)
	for i := 0; i < n; i++ {
		d := drawDriftDistance(cfg, rng)
		theta := rng.Float64() * 360
		lat, lng := calculateDriftPoint(anchor.Lat, anchor.Lng, d, theta)
		fixes[i] = models.Fix{Lat: lat, Lng: lng, T: anchor.T + int64(i+1)}
	}
	return fixes
}

// applyMovingDrift displaces every fix in a moving segment by a magnitude
// that ramps smoothly up and back down (sin(pi*progress)) while the
// displacement direction rotates linearly across the segment.
func applyMovingDrift(segment []models.Fix, cfg Config, rng *rand.Rand) []models.Fix {
	n := len(segment)
	out := make([]models.Fix, n)
	baseTheta := rng.Float64() * 360
	peak := drawDriftDistance(cfg, rng)

	denom := float64(n - 1)
	if denom <= 0 {
		denom = 1
	}

	for i, f := range segment {
		progress := float64(i) / denom
		magnitude := peak * math.Sin(math.Pi*progress)
		theta := math.Mod(baseTheta+progress*360, 360)
		lat, lng := calculateDriftPoint(f.Lat, f.Lng, magnitude, theta)
		out[i] = models.Fix{Lat: lat, Lng: lng, T: f.T}
	}
	return out
}

// applySpeedScenario walks segment in six-point chunks. A chunk whose
// consecutive bearings all agree within the configured tolerance is treated
// as a high-speed straight run: its 2nd, 4th and 5th fixes (0-indexed 1, 3,
// 4) are dropped, mimicking GPS under-sampling at speed. Non-straight
// chunks, and any trailing partial chunk, pass through unchanged.
func applySpeedScenario(segment []models.Fix, cfg Config, rng *rand.Rand) []models.Fix {
	var out []models.Fix
	for start := 0; start < len(segment); start += 6 {
		end := start + 6
		if end > len(segment) {
			end = len(segment)
		}
		chunk := segment[start:end]

		if len(chunk) == 6 && isStraightChunk(chunk, cfg.StraightRunAngleToleranceDeg) {
			kept := dropSubsampled(chunk)
			if cfg.SpeedScenarioLateralAmplitude > 0 {
				overlayLateralDrift(kept, cfg, rng)
			}
			out = append(out, kept...)
		} else {
			out = append(out, chunk...)
		}
	}
	return out
}

func dropSubsampled(chunk []models.Fix) []models.Fix {
	drop := map[int]bool{1: true, 3: true, 4: true}
	kept := make([]models.Fix, 0, len(chunk))
	for i, f := range chunk {
		if drop[i] {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func overlayLateralDrift(fixes []models.Fix, cfg Config, rng *rand.Rand) {
	period := cfg.SpeedScenarioLateralPeriod
	if period < 1 {
		period = 1
	}
	for i := range fixes {
		if i%period != 0 {
			continue
		}
		theta := rng.Float64() * 360
		lat, lng := calculateDriftPoint(fixes[i].Lat, fixes[i].Lng, cfg.SpeedScenarioLateralAmplitude, theta)
		fixes[i].Lat, fixes[i].Lng = lat, lng
	}
}

// isStraightChunk reports whether consecutive bearings across chunk agree
// within tolerance degrees of each other — a cheap straight-line oracle.
func isStraightChunk(chunk []models.Fix, toleranceDeg float64) bool {
	if len(chunk) < 3 {
		return false
	}
	bearings := make([]float64, len(chunk)-1)
	for i := 0; i < len(chunk)-1; i++ {
		bearings[i] = spatial.Bearing(chunk[i].Lat, chunk[i].Lng, chunk[i+1].Lat, chunk[i+1].Lng)
	}
	for i := 1; i < len(bearings); i++ {
		if spatial.AbsAngleDiffDegrees(bearings[i-1], bearings[i]) > toleranceDeg {
			return false
		}
	}
	return true
}
