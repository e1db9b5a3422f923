package drift

import (
	"testing"

	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/spatial"
)

// stillFixes returns n fixes clustered within a few centimeters of
// (lat, lon), 1000ms apart starting at startT — a stationary receiver.
func stillFixes(lat, lon float64, startT int64, n int) []models.Fix {
	fixes := make([]models.Fix, n)
	for i := 0; i < n; i++ {
		fixes[i] = models.Fix{
			Lat: lat + float64(i)*0.0000001,
			Lng: lon,
			T:   startT + int64(i)*1000,
		}
	}
	return fixes
}

func TestWarmupAcceptsAllFixesAndBuildsBasePoint(t *testing.T) {
	d := NewDetector(DefaultConfig())
	fixes := stillFixes(10, 20, 0, 10)

	for i, f := range fixes {
		if got := d.ProcessFix(f); got != Accepted {
			t.Fatalf("fix %d: ProcessFix() = %v, want Accepted during warmup", i, got)
		}
	}

	if d.State() != Tracking {
		t.Errorf("State() = %v, want Tracking after window fills", d.State())
	}
	snap := d.GetStatus()
	if !snap.HasBasePoint {
		t.Error("GetStatus().HasBasePoint = false, want true")
	}
	if snap.BaseRadius < DefaultConfig().FloorRadiusMeters {
		t.Errorf("BaseRadius = %v, want >= floor radius", snap.BaseRadius)
	}
}

func TestSmallJitterStaysAccepted(t *testing.T) {
	d := NewDetector(DefaultConfig())
	for _, f := range stillFixes(10, 20, 0, 10) {
		d.ProcessFix(f)
	}

	// A fix a few meters away is well inside the floor-radius circle.
	f := models.Fix{Lat: 10.00003, Lng: 20, T: 10000}
	if got := d.ProcessFix(f); got != Accepted {
		t.Errorf("ProcessFix() = %v, want Accepted for small jitter", got)
	}
}

func TestLoneOutlierIsPermanentlyRejected(t *testing.T) {
	d := NewDetector(DefaultConfig())
	for _, f := range stillFixes(10, 20, 0, 10) {
		d.ProcessFix(f)
	}

	lat2, lon2 := spatial.DestinationPoint(10, 20, 45, 1000)
	outlier := models.Fix{Lat: lat2, Lng: lon2, T: 11000}

	got := d.ProcessFix(outlier)
	if got != Rejected {
		t.Fatalf("ProcessFix() = %v, want Rejected for lone outlier", got)
	}

	// The very next fix, back inside the circle, cancels the suspicion.
	next := models.Fix{Lat: 10.00001, Lng: 20, T: 12000}
	if got := d.ProcessFix(next); got != Accepted {
		t.Errorf("ProcessFix() after outlier = %v, want Accepted", got)
	}
	if got := d.GetStatus().ConsecutiveDriftCount; got != 0 {
		t.Errorf("ConsecutiveDriftCount = %d, want 0 (buffer cleared by good fix)", got)
	}
}

func TestLinearRecoveryOnStraightHighSpeedRun(t *testing.T) {
	d := NewDetector(DefaultConfig())
	for _, f := range stillFixes(0, 0, 0, 10) {
		d.ProcessFix(f)
	}

	// Three collinear fixes heading due east, each ~134m further than the
	// last — outside the floor-radius circle, but a straight line.
	t0 := int64(10000)
	var last Outcome
	for i := 1; i <= 3; i++ {
		lat, lon := spatial.DestinationPoint(0, 0, 90, float64(i)*134)
		last = d.ProcessFix(models.Fix{Lat: lat, Lng: lon, T: t0 + int64(i)*1000})
	}

	if last != Accepted {
		t.Fatalf("ProcessFix() on third collinear fix = %v, want Accepted via linear recovery", last)
	}
	snap := d.GetStatus()
	if snap.RebuildCount != 1 {
		t.Errorf("RebuildCount = %d, want 1", snap.RebuildCount)
	}
	if snap.ConsecutiveDriftCount != 0 {
		t.Errorf("ConsecutiveDriftCount = %d, want 0 after recovery clears the buffer", snap.ConsecutiveDriftCount)
	}
	if snap.RejectedCount != 0 {
		t.Errorf("RejectedCount = %d, want 0 — recovered fixes must not count as rejected", snap.RejectedCount)
	}
}

func TestForcedRebuildOnScatteredDrift(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDriftSequence = 10
	d := NewDetector(cfg)
	for _, f := range stillFixes(0, 0, 0, 10) {
		d.ProcessFix(f)
	}

	// Ten fixes, each 300m out, cycling through four bearings 90 degrees
	// apart: none of them line up, so linear recovery never triggers.
	bearings := []float64{0, 90, 180, 270}
	t0 := int64(10000)
	var last Outcome
	for i := 0; i < cfg.MaxDriftSequence; i++ {
		bearing := bearings[i%len(bearings)]
		lat, lon := spatial.DestinationPoint(0, 0, bearing, 300)
		last = d.ProcessFix(models.Fix{Lat: lat, Lng: lon, T: t0 + int64(i)*1000})
	}

	if last != Accepted {
		t.Fatalf("ProcessFix() on the Mth scattered fix = %v, want Accepted via forced rebuild", last)
	}
	snap := d.GetStatus()
	if snap.RebuildCount != 1 {
		t.Errorf("RebuildCount = %d, want 1", snap.RebuildCount)
	}
	if snap.RejectedCount != cfg.MaxDriftSequence-1 {
		t.Errorf("RejectedCount = %d, want %d (all but the triggering fix)", snap.RejectedCount, cfg.MaxDriftSequence-1)
	}
}

func TestExpiryReentersWarmup(t *testing.T) {
	d := NewDetector(DefaultConfig())
	for _, f := range stillFixes(0, 0, 0, 10) {
		d.ProcessFix(f)
	}

	// Far beyond the validity period.
	stale := models.Fix{Lat: 0, Lng: 0, T: 10000 + DefaultConfig().ValidityPeriodMs + 1}
	if got := d.ProcessFix(stale); got != Accepted {
		t.Fatalf("ProcessFix() on expiry = %v, want Accepted", got)
	}
	if d.State() != Warmup {
		t.Errorf("State() after expiry = %v, want Warmup", d.State())
	}
	if got := d.GetStatus().HasBasePoint; got {
		t.Error("HasBasePoint = true after expiry, want false")
	}
}

func TestEmptyTrajectoryIsNotAnError(t *testing.T) {
	d := NewDetector(DefaultConfig())
	result := d.ProcessTrajectory(nil)

	if result.OriginalPoints != 0 || result.ProcessedPoints != 0 || result.FilteredPoints != 0 {
		t.Errorf("ProcessTrajectory(nil) = %+v, want all-zero result", result)
	}
}

func TestFilteringRateMatchesRejectedOverInput(t *testing.T) {
	d := NewDetector(DefaultConfig())
	fixes := stillFixes(0, 0, 0, 10)

	far, lon := spatial.DestinationPoint(0, 0, 45, 2000)
	fixes = append(fixes, models.Fix{Lat: far, Lng: lon, T: 11000})

	result := d.ProcessTrajectory(fixes)
	want := 1.0 / float64(len(fixes))
	if result.Statistics.FilteringRate != want {
		t.Errorf("FilteringRate = %v, want %v", result.Statistics.FilteringRate, want)
	}
	if result.Statistics.RejectedCount != 1 {
		t.Errorf("RejectedCount = %d, want 1", result.Statistics.RejectedCount)
	}
}

func TestWindowAndBufferStayWithinCaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSize = 5
	cfg.MaxDriftSequence = 3
	d := NewDetector(cfg)

	for _, f := range stillFixes(0, 0, 0, 5) {
		d.ProcessFix(f)
	}
	if len(d.window) > cfg.WindowSize {
		t.Fatalf("window length = %d, want <= %d", len(d.window), cfg.WindowSize)
	}

	bearings := []float64{0, 120, 240}
	for i := 0; i < 3; i++ {
		lat, lon := spatial.DestinationPoint(0, 0, bearings[i], 300)
		d.ProcessFix(models.Fix{Lat: lat, Lng: lon, T: 6000 + int64(i)*1000})
		if len(d.driftBuffer) > cfg.MaxDriftSequence {
			t.Fatalf("drift buffer length = %d, want <= %d", len(d.driftBuffer), cfg.MaxDriftSequence)
		}
	}
}
