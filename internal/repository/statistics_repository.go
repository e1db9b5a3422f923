package repository

import (
	"database/sql"
	"fmt"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// StatisticsRepository handles database operations for per-trajectory
// processing statistics.
type StatisticsRepository struct {
	db *sql.DB
}

func NewStatisticsRepository(db *sql.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Upsert replaces the statistics row for a trajectory with a fresh
// snapshot, since a trajectory is reprocessed as a whole rather than
// incrementally aggregated.
func (r *StatisticsRepository) Upsert(s *models.ProcessingStatistics) error {
	query := `INSERT INTO processing_statistics (
			trajectory_id, input_count, accepted_count, rejected_count, rebuild_count,
			filtering_rate, processing_time_ms, window_length, has_base_point,
			base_lat, base_lng, base_radius, consecutive_drift_count, base_age_ms,
			base_expired, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))
		ON CONFLICT(trajectory_id) DO UPDATE SET
			input_count = excluded.input_count,
			accepted_count = excluded.accepted_count,
			rejected_count = excluded.rejected_count,
			rebuild_count = excluded.rebuild_count,
			filtering_rate = excluded.filtering_rate,
			processing_time_ms = excluded.processing_time_ms,
			window_length = excluded.window_length,
			has_base_point = excluded.has_base_point,
			base_lat = excluded.base_lat,
			base_lng = excluded.base_lng,
			base_radius = excluded.base_radius,
			consecutive_drift_count = excluded.consecutive_drift_count,
			base_age_ms = excluded.base_age_ms,
			base_expired = excluded.base_expired,
			updated_at = datetime('now')`

	_, err := r.db.Exec(query,
		s.TrajectoryID, s.InputCount, s.AcceptedCount, s.RejectedCount, s.RebuildCount,
		s.FilteringRate, s.ProcessingTimeMs, s.WindowLength, s.HasBasePoint,
		s.BaseLat, s.BaseLng, s.BaseRadius, s.ConsecutiveDriftCount, s.BaseAgeMs, s.BaseExpired,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert statistics: %w", err)
	}
	return nil
}

func (r *StatisticsRepository) GetByTrajectory(trajectoryID string) (*models.ProcessingStatistics, error) {
	query := `SELECT id, trajectory_id, input_count, accepted_count, rejected_count, rebuild_count,
		filtering_rate, processing_time_ms, window_length, has_base_point, base_lat, base_lng,
		base_radius, consecutive_drift_count, base_age_ms, base_expired, created_at, updated_at
		FROM processing_statistics WHERE trajectory_id = ?`

	var s models.ProcessingStatistics
	err := r.db.QueryRow(query, trajectoryID).Scan(
		&s.ID, &s.TrajectoryID, &s.InputCount, &s.AcceptedCount, &s.RejectedCount, &s.RebuildCount,
		&s.FilteringRate, &s.ProcessingTimeMs, &s.WindowLength, &s.HasBasePoint, &s.BaseLat, &s.BaseLng,
		&s.BaseRadius, &s.ConsecutiveDriftCount, &s.BaseAgeMs, &s.BaseExpired, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return &s, nil
}
