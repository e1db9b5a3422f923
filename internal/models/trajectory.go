package models

import "time"

// Trajectory is a named, owned sequence of fixes submitted for drift
// filtering.
type Trajectory struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// StoredFix is a Fix as persisted against a trajectory, carrying the
// detector's verdict once processed.
type StoredFix struct {
	ID             int64   `json:"id" db:"id"`
	TrajectoryID   string  `json:"trajectoryId" db:"trajectory_id"`
	Lat            float64 `json:"lat" db:"lat"`
	Lng            float64 `json:"lng" db:"lng"`
	T              int64   `json:"timestamp" db:"t"`
	Accepted       bool    `json:"accepted" db:"accepted"`
	RejectedReason string  `json:"rejectedReason,omitempty" db:"rejected_reason"`
	SeqNo          int     `json:"seqNo" db:"seq_no"`
}

func (s StoredFix) ToFix() Fix {
	return Fix{Lat: s.Lat, Lng: s.Lng, T: s.T}
}

// StoredMarker is an anomaly Marker as persisted against a trajectory.
type StoredMarker struct {
	ID           int64      `json:"id" db:"id"`
	TrajectoryID string     `json:"trajectoryId" db:"trajectory_id"`
	Kind         MarkerKind `json:"kind" db:"kind"`
	Lat          float64    `json:"lat" db:"lat"`
	Lng          float64    `json:"lng" db:"lng"`
	T            int64      `json:"timestamp" db:"t"`
	Description  string     `json:"description,omitempty" db:"description"`
}

// FixesResponse is a paginated page of stored fixes.
type FixesResponse struct {
	Data       []StoredFix `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// MarkersResponse is a paginated page of stored markers.
type MarkersResponse struct {
	Data       []StoredMarker `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
