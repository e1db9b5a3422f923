package drift

import "github.com/trailwatch/gpsdrift/internal/models"

// Snapshot is a point-in-time view of the detector's accumulated state and
// counters, per the spec's Statistics & Marker Reporter component. It is a
// pure accumulator: nothing in Snapshot is recomputed by re-scanning input,
// it is assembled from counters and buffers the detector already maintains.
type Snapshot struct {
	WindowLength          int
	AcceptedCount         int
	HasBasePoint          bool
	BaseRadius            float64
	ConsecutiveDriftCount int
	BaseAgeMs             int64
	BaseExpired           bool
	BasePoint             *models.Fix
	RejectedCount         int
	RebuildCount          int64
	RebuildPositions      []models.Fix
	ProcessingTimeMs      int64
	FilteringRate         float64
}

// GetStatus returns a Snapshot of the detector's current state. BaseAgeMs
// and BaseExpired are computed against the most recently processed fix's
// timestamp, not the host wall clock — the detector has no other notion of
// "now" (see the expiry check in ProcessFix).
func (d *Detector) GetStatus() Snapshot {
	snap := Snapshot{
		WindowLength:          len(d.window),
		AcceptedCount:         len(d.accepted),
		ConsecutiveDriftCount: len(d.driftBuffer),
		RejectedCount:         len(d.rejected),
		RebuildCount:          d.rebuildCount,
		RebuildPositions:      append([]models.Fix(nil), d.rebuildPositions...),
		ProcessingTimeMs:      d.processingTime.Milliseconds(),
	}

	if d.inputCount > 0 {
		snap.FilteringRate = float64(len(d.rejected)) / float64(d.inputCount)
	}

	if d.base != nil {
		snap.HasBasePoint = true
		snap.BaseRadius = d.base.Radius
		snap.BasePoint = &models.Fix{Lat: d.base.Point.Lat, Lng: d.base.Point.Lon, T: d.base.CreatedAtT}

		if lastT := d.lastFixT(); lastT != 0 {
			age := lastT - d.base.CreatedAtT
			snap.BaseAgeMs = age
			snap.BaseExpired = age > d.cfg.ValidityPeriodMs
		}
	}

	return snap
}

// lastFixT returns the timestamp of the most recently seen fix, falling
// back to the window's tail when the drift buffer is empty.
func (d *Detector) lastFixT() int64 {
	if len(d.driftBuffer) > 0 {
		return d.driftBuffer[len(d.driftBuffer)-1].T
	}
	if len(d.window) > 0 {
		return d.window[len(d.window)-1].T
	}
	return 0
}
