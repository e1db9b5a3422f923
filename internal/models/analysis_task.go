package models

import "time"

// AnalysisTask represents an asynchronous batch analysis job run against a
// trajectory's fix stream.
type AnalysisTask struct {
	ID int64 `json:"id" db:"id"`

	// Task identification
	TrajectoryID string `json:"trajectoryId" db:"trajectory_id"`
	SkillName    string `json:"skillName" db:"skill_name"` // Which analyzer to run
	TaskType     string `json:"taskType" db:"task_type"`    // INCREMENTAL, FULL_RECOMPUTE

	// Status
	Status          string `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent int    `json:"progressPercent" db:"progress_percent"`
	ETASeconds      int    `json:"etaSeconds,omitempty" db:"eta_seconds"`

	// Input parameters
	ParamsJSON     string `json:"paramsJson,omitempty" db:"params_json"`
	ConfigProfileID int64  `json:"configProfileId,omitempty" db:"config_profile_id"`

	// Execution info
	TotalPoints     int   `json:"totalPoints,omitempty" db:"total_points"`
	ProcessedPoints int   `json:"processedPoints" db:"processed_points"`
	FailedPoints    int   `json:"failedPoints" db:"failed_points"`
	StartTime       int64 `json:"startTime,omitempty" db:"start_time"` // Unix timestamp
	EndTime         int64 `json:"endTime,omitempty" db:"end_time"`     // Unix timestamp

	// Results
	ResultSummary string `json:"resultSummary,omitempty" db:"result_summary"` // JSON object with summary statistics
	ErrorMessage  string `json:"errorMessage,omitempty" db:"error_message"`

	// Dependencies
	DependsOnTaskIDs string `json:"dependsOnTaskIds,omitempty" db:"depends_on_task_ids"` // JSON array of task IDs
	BlocksTaskIDs    string `json:"blocksTaskIds,omitempty" db:"blocks_task_ids"`        // JSON array of task IDs

	// Metadata
	CreatedBy string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TaskType constants
const (
	TaskTypeIncremental   = "INCREMENTAL"
	TaskTypeFullRecompute = "FULL_RECOMPUTE"
)

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)
