package models

import "time"

// DetectorConfigProfile is a named, persisted drift.Config. Unlike the
// teacher's free-form params_json, every detector parameter gets its own
// typed column — the detector's configuration surface is small and fixed,
// so there is no benefit to the teacher's opaque-blob approach here.
type DetectorConfigProfile struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	IsDefault   bool   `json:"isDefault" db:"is_default"`

	WindowSize              int     `json:"windowSize" db:"window_size"`
	ValidityPeriodMs        int64   `json:"validityPeriodMs" db:"validity_period_ms"`
	MaxDriftSequence        int     `json:"maxDriftSequence" db:"max_drift_sequence"`
	DriftMultiplier         float64 `json:"driftMultiplier" db:"drift_multiplier"`
	LinearAngleThresholdDeg float64 `json:"linearAngleThresholdDeg" db:"linear_angle_threshold_deg"`
	FloorRadiusMeters       float64 `json:"floorRadiusMeters" db:"floor_radius_meters"`

	CreatedBy string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
