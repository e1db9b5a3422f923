package repository

import (
	"database/sql"
	"fmt"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// TrajectoryRepository handles database operations for trajectories.
type TrajectoryRepository struct {
	db *sql.DB
}

func NewTrajectoryRepository(db *sql.DB) *TrajectoryRepository {
	return &TrajectoryRepository{db: db}
}

func (r *TrajectoryRepository) Create(t *models.Trajectory) error {
	query := `INSERT INTO trajectories (id, name, created_by, created_at, updated_at)
		VALUES (?, ?, ?, datetime('now'), datetime('now'))`

	_, err := r.db.Exec(query, t.ID, t.Name, t.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to create trajectory: %w", err)
	}
	return nil
}

func (r *TrajectoryRepository) GetByID(id string) (*models.Trajectory, error) {
	query := `SELECT id, name, created_by, created_at, updated_at FROM trajectories WHERE id = ?`

	var t models.Trajectory
	err := r.db.QueryRow(query, id).Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trajectory: %w", err)
	}
	return &t, nil
}

func (r *TrajectoryRepository) List(filter models.TrajectoryFilter) ([]models.Trajectory, int64, error) {
	query := `SELECT id, name, created_by, created_at, updated_at FROM trajectories`
	countQuery := `SELECT COUNT(*) FROM trajectories`

	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.CreatedBy != "" {
		conditions = append(conditions, "created_by = ?")
		args = append(args, filter.CreatedBy)
	}

	if len(conditions) > 0 {
		clause := " WHERE "
		for i, c := range conditions {
			if i > 0 {
				clause += " AND "
			}
			clause += c
		}
		query += clause
		countQuery += clause
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trajectories: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}
	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trajectories: %w", err)
	}
	defer rows.Close()

	var out []models.Trajectory
	for rows.Next() {
		var t models.Trajectory
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trajectory: %w", err)
		}
		out = append(out, t)
	}

	return out, total, nil
}

func (r *TrajectoryRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM trajectories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trajectory: %w", err)
	}
	return nil
}
