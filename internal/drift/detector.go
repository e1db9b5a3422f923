// Package drift implements the streaming GPS drift detector: a moving
// base-point reference with a lifetime and a radius, a classifier that
// rejects fixes far from that reference, and a two-track recovery protocol
// that tells sustained drift apart from a legitimate high-speed straight
// line.
package drift

import (
	"time"

	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/spatial"
)

// Outcome is the per-fix decision returned by ProcessFix.
type Outcome int

const (
	Accepted Outcome = iota
	Rejected
)

func (o Outcome) String() string {
	if o == Accepted {
		return "accepted"
	}
	return "rejected"
}

// RejectedReasonDrift is recorded against fixes that fail the drift test and
// are not recovered by either track.
const RejectedReasonDrift = "drift"

// State reports the detector's current lifecycle phase. It is informational
// only — processFix does not branch on it directly, it re-derives the same
// condition (len(window) < WindowSize, base == nil) inline.
type State int

const (
	Warmup State = iota
	Tracking
)

// Detector is a single-trajectory, single-threaded state machine. It owns
// its sliding window, drift buffer and base point outright; nothing else
// may mutate them. Handling multiple trajectories concurrently means
// constructing one Detector per trajectory — there is no shared state to
// coordinate.
type Detector struct {
	cfg Config

	window      []models.Fix
	driftBuffer []models.Fix
	base        *BasePoint

	accepted []models.Fix
	rejected []models.Fix
	markers  []models.Marker

	inputCount   int64
	rebuildCount int64

	rebuildPositions []models.Fix
	processingTime   time.Duration
}

// NewDetector constructs a Detector with the given configuration.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Config returns the detector's current configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// SetConfig replaces the detector's configuration without touching its
// accumulated state (window, base point, counters). Takes effect starting
// with the next fix.
func (d *Detector) SetConfig(cfg Config) {
	d.cfg = cfg
}

// State reports whether the detector currently has a usable base point.
func (d *Detector) State() State {
	if d.base == nil {
		return Warmup
	}
	return Tracking
}

// Reset discards all accumulated state: window, drift buffer, base point,
// counters, accepted/rejected history and markers. Configuration survives.
func (d *Detector) Reset() {
	d.window = nil
	d.driftBuffer = nil
	d.base = nil
	d.accepted = nil
	d.rejected = nil
	d.markers = nil
	d.inputCount = 0
	d.rebuildCount = 0
	d.rebuildPositions = nil
	d.processingTime = 0
}

// ProcessFix classifies a single fix as Accepted or Rejected, mutating the
// detector's window, drift buffer and base point as needed. Fixes within one
// trajectory must be passed in timestamp order; the detector does not
// reorder them.
func (d *Detector) ProcessFix(f models.Fix) Outcome {
	d.inputCount++

	// Step 1: warmup short-circuit.
	if len(d.window) < d.cfg.WindowSize {
		d.window = append(d.window, f)
		d.accepted = append(d.accepted, f)
		if len(d.window) == d.cfg.WindowSize {
			base := buildBasePoint(d.window, f.T, d.cfg.FloorRadiusMeters)
			d.base = &base
		}
		return Accepted
	}

	// Step 2: expiry check (base is guaranteed non-nil past warmup).
	if f.T-d.base.CreatedAtT > d.cfg.ValidityPeriodMs {
		d.window = []models.Fix{f}
		d.base = nil
		d.driftBuffer = nil
		d.accepted = append(d.accepted, f)
		return Accepted
	}

	// Step 3: drift test.
	dist := spatial.HaversineDistance(f.Lat, f.Lng, d.base.Point.Lat, d.base.Point.Lon)
	isDrift := d.base.Radius > 0 && dist > d.cfg.DriftMultiplier*d.base.Radius

	if isDrift {
		return d.handleDriftCandidate(f)
	}

	return d.handleNonDrift(f)
}

func (d *Detector) handleDriftCandidate(f models.Fix) Outcome {
	d.driftBuffer = append(d.driftBuffer, f)
	if len(d.driftBuffer) > d.cfg.MaxDriftSequence {
		d.driftBuffer = d.driftBuffer[len(d.driftBuffer)-d.cfg.MaxDriftSequence:]
	}

	// Track 1: linear-motion recovery.
	if len(d.driftBuffer) >= 3 && d.isLinearRecovery() {
		d.recoverLinear(f)
		return Accepted
	}

	// Track 2: forced rebuild once the buffer is full.
	if len(d.driftBuffer) == d.cfg.MaxDriftSequence {
		d.forcedRebuild(f)
		return Accepted
	}

	// Neither recovery track applies yet: permanent rejection.
	d.rejected = append(d.rejected, f)
	return Rejected
}

// isLinearRecovery tests the last three buffered rejections for
// collinearity: a small triangle angle means they sit roughly on one line,
// and a sanity cap on their distance from the base point rules out
// long-range teleports that happen to line up.
func (d *Detector) isLinearRecovery() bool {
	n := len(d.driftBuffer)
	last3 := d.driftBuffer[n-3:]

	p := toPoint(last3[0])
	q := toPoint(last3[1])
	r := toPoint(last3[2])

	angle := spatial.MinTriangleAngle(p, q, r)
	if angle >= d.cfg.LinearAngleThresholdDeg {
		return false
	}

	maxDist := 0.0
	for _, f := range last3 {
		dist := spatial.HaversineDistance(f.Lat, f.Lng, d.base.Point.Lat, d.base.Point.Lon)
		if dist > maxDist {
			maxDist = dist
		}
	}
	sanityCap := 5 * d.cfg.DriftMultiplier * d.base.Radius
	return maxDist <= sanityCap
}

// recoverLinear reclassifies every buffered rejection as accepted, folds
// them into the window (oldest-first eviction at WindowSize), rebuilds the
// base point and records a rebuild marker at the triggering fix's position.
func (d *Detector) recoverLinear(trigger models.Fix) {
	d.rejected = removeFixes(d.rejected, d.driftBuffer)
	for _, f := range d.driftBuffer {
		d.window = pushCapped(d.window, f, d.cfg.WindowSize)
		d.accepted = append(d.accepted, f)
	}
	d.driftBuffer = nil

	base := buildBasePoint(d.window, trigger.T, d.cfg.FloorRadiusMeters)
	d.base = &base
	d.rebuildCount++
	d.rebuildPositions = append(d.rebuildPositions, trigger)
	d.markers = append(d.markers, models.Marker{
		Kind:        models.KindRebuild,
		Position:    trigger,
		Description: "linear-motion recovery",
		T:           trigger.T,
	})
}

// forcedRebuild seeds a fresh window from the exhausted drift buffer: the
// vehicle's true position has moved, and the buffered fixes are now the best
// available estimate of where it actually is.
func (d *Detector) forcedRebuild(trigger models.Fix) {
	window := append([]models.Fix(nil), d.driftBuffer...)
	if len(window) > d.cfg.WindowSize {
		window = window[len(window)-d.cfg.WindowSize:]
	}
	d.window = window
	d.driftBuffer = nil

	base := buildBasePoint(d.window, trigger.T, d.cfg.FloorRadiusMeters)
	d.base = &base
	d.rebuildCount++
	d.rebuildPositions = append(d.rebuildPositions, trigger)
	d.markers = append(d.markers, models.Marker{
		Kind:        models.KindRebuild,
		Position:    trigger,
		Description: "forced rebuild",
		T:           trigger.T,
	})
	d.accepted = append(d.accepted, trigger)
}

func (d *Detector) handleNonDrift(f models.Fix) Outcome {
	d.driftBuffer = nil

	d.window = pushCapped(d.window, f, d.cfg.WindowSize)
	d.accepted = append(d.accepted, f)

	base := buildBasePoint(d.window, f.T, d.cfg.FloorRadiusMeters)
	d.base = &base

	return Accepted
}

func pushCapped(window []models.Fix, f models.Fix, cap int) []models.Fix {
	window = append(window, f)
	if len(window) > cap {
		window = window[len(window)-cap:]
	}
	return window
}

func toPoint(f models.Fix) spatial.Point {
	return spatial.Point{Lat: f.Lat, Lon: f.Lng}
}

// removeFixes returns rejected with every fix in remove struck out, once
// per occurrence. Used when linear recovery reclassifies buffered
// rejections as accepted, so a fix never ends up in both sets.
func removeFixes(rejected, remove []models.Fix) []models.Fix {
	if len(remove) == 0 {
		return rejected
	}

	drop := make(map[models.Fix]int, len(remove))
	for _, f := range remove {
		drop[f]++
	}

	out := make([]models.Fix, 0, len(rejected))
	for _, f := range rejected {
		if drop[f] > 0 {
			drop[f]--
			continue
		}
		out = append(out, f)
	}
	return out
}

// Result is the outcome of processing an entire trajectory in one call.
type Result struct {
	OriginalPoints  int
	ProcessedPoints int
	FilteredPoints  int
	Statistics      Snapshot
	Markers         []models.Marker
	AcceptedFixes   []models.Fix
	RejectedFixes   []models.Fix
}

// ProcessTrajectory runs ProcessFix over fixes in order. An empty input is
// not an error: it returns a zeroed Result rather than failing.
func (d *Detector) ProcessTrajectory(fixes []models.Fix) Result {
	start := time.Now()
	for _, f := range fixes {
		d.ProcessFix(f)
	}
	d.processingTime = time.Since(start)

	return Result{
		OriginalPoints:  len(fixes),
		ProcessedPoints: len(d.accepted),
		FilteredPoints:  len(d.rejected),
		Statistics:      d.GetStatus(),
		Markers:         append([]models.Marker(nil), d.markers...),
		AcceptedFixes:   append([]models.Fix(nil), d.accepted...),
		RejectedFixes:   append([]models.Fix(nil), d.rejected...),
	}
}
