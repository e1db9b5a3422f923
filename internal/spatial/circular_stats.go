package spatial

import "math"

// AngleDiffDegrees returns the smallest signed difference angle2-angle1,
// normalized to [-180, 180]. Used by the simulator to decide whether
// consecutive bearings agree closely enough to call a run "straight".
func AngleDiffDegrees(angle1, angle2 float64) float64 {
	diff := angle2 - angle1
	for diff > 180 {
		diff -= 360
	}
	for diff < -180 {
		diff += 360
	}
	return diff
}

// AbsAngleDiffDegrees is the unsigned form, in [0, 180].
func AbsAngleDiffDegrees(angle1, angle2 float64) float64 {
	return math.Abs(AngleDiffDegrees(angle1, angle2))
}
