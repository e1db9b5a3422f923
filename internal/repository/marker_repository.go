package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// MarkerRepository handles database operations for anomaly markers.
type MarkerRepository struct {
	db *sql.DB
}

func NewMarkerRepository(db *sql.DB) *MarkerRepository {
	return &MarkerRepository{db: db}
}

func (r *MarkerRepository) BatchInsert(trajectoryID string, markers []models.Marker) error {
	if len(markers) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	stmt, err := tx.Prepare(`INSERT INTO markers (trajectory_id, kind, lat, lng, t, description)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range markers {
		if _, err := stmt.Exec(trajectoryID, string(m.Kind), m.Position.Lat, m.Position.Lng, m.T, m.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert marker: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *MarkerRepository) List(filter models.MarkerFilter) ([]models.StoredMarker, int64, error) {
	query := `SELECT id, trajectory_id, kind, lat, lng, t, description FROM markers`
	countQuery := `SELECT COUNT(*) FROM markers`

	var conditions []string
	var args []interface{}

	if filter.TrajectoryID != "" {
		conditions = append(conditions, "trajectory_id = ?")
		args = append(args, filter.TrajectoryID)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "t >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "t <= ?")
		args = append(args, filter.EndTime)
	}

	if len(conditions) > 0 {
		clause := " WHERE " + strings.Join(conditions, " AND ")
		query += clause
		countQuery += clause
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count markers: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 500
	}
	if filter.PageSize > 5000 {
		filter.PageSize = 5000
	}
	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY t ASC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query markers: %w", err)
	}
	defer rows.Close()

	var out []models.StoredMarker
	for rows.Next() {
		var m models.StoredMarker
		var kind string
		if err := rows.Scan(&m.ID, &m.TrajectoryID, &kind, &m.Lat, &m.Lng, &m.T, &m.Description); err != nil {
			return nil, 0, fmt.Errorf("failed to scan marker: %w", err)
		}
		m.Kind = models.MarkerKind(kind)
		out = append(out, m)
	}

	return out, total, nil
}

// DeleteByTrajectory removes all markers for a trajectory, used before a
// reprocessing run replaces them with fresh ground truth.
func (r *MarkerRepository) DeleteByTrajectory(trajectoryID string) error {
	_, err := r.db.Exec(`DELETE FROM markers WHERE trajectory_id = ?`, trajectoryID)
	if err != nil {
		return fmt.Errorf("failed to delete markers: %w", err)
	}
	return nil
}
