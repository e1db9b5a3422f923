package models

// TrajectoryFilter represents filter parameters for querying trajectories.
type TrajectoryFilter struct {
	Name      string `form:"name"`
	CreatedBy string `form:"createdBy"`
	StartTime int64  `form:"startTime"` // Unix millis
	EndTime   int64  `form:"endTime"`   // Unix millis
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// FixFilter represents filter parameters for querying fixes within a
// trajectory, including the accept/reject outcome recorded by the
// detector.
type FixFilter struct {
	TrajectoryID string `form:"trajectoryId"`
	Accepted     *bool  `form:"accepted"`
	StartTime    int64  `form:"startTime"` // Unix millis
	EndTime      int64  `form:"endTime"`   // Unix millis
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// MarkerFilter represents filter parameters for querying anomaly markers.
type MarkerFilter struct {
	TrajectoryID string `form:"trajectoryId"`
	Kind         string `form:"kind"` // tunnel, drift, speed, rebuild
	StartTime    int64  `form:"startTime"`
	EndTime      int64  `form:"endTime"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// JobFilter represents filter parameters for querying analysis jobs.
type JobFilter struct {
	TrajectoryID string `form:"trajectoryId"`
	Status       string `form:"status"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}
