package models

import "time"

// ProcessingStatistics is the persisted counterpart of drift.Snapshot: one
// row per trajectory, refreshed each time the trajectory is processed.
type ProcessingStatistics struct {
	ID           int64 `json:"id" db:"id"`
	TrajectoryID string `json:"trajectoryId" db:"trajectory_id"`

	InputCount    int     `json:"inputCount" db:"input_count"`
	AcceptedCount int     `json:"acceptedCount" db:"accepted_count"`
	RejectedCount int     `json:"rejectedCount" db:"rejected_count"`
	RebuildCount  int     `json:"rebuildCount" db:"rebuild_count"`
	FilteringRate float64 `json:"filteringRate" db:"filtering_rate"`

	ProcessingTimeMs int64 `json:"processingTimeMs" db:"processing_time_ms"`

	WindowLength          int     `json:"windowLength" db:"window_length"`
	HasBasePoint          bool    `json:"hasBasePoint" db:"has_base_point"`
	BaseLat               float64 `json:"baseLat,omitempty" db:"base_lat"`
	BaseLng               float64 `json:"baseLng,omitempty" db:"base_lng"`
	BaseRadius            float64 `json:"baseRadius,omitempty" db:"base_radius"`
	ConsecutiveDriftCount int     `json:"consecutiveDriftCount" db:"consecutive_drift_count"`
	BaseAgeMs             int64   `json:"baseAgeMs" db:"base_age_ms"`
	BaseExpired           bool    `json:"baseExpired" db:"base_expired"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
