package repository

import (
	"database/sql"
	"fmt"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// ConfigProfileRepository handles database operations for detector
// configuration profiles.
type ConfigProfileRepository struct {
	db *sql.DB
}

func NewConfigProfileRepository(db *sql.DB) *ConfigProfileRepository {
	return &ConfigProfileRepository{db: db}
}

func (r *ConfigProfileRepository) Create(p *models.DetectorConfigProfile) (int64, error) {
	query := `INSERT INTO config_profiles (
			name, description, is_default, window_size, validity_period_ms,
			max_drift_sequence, drift_multiplier, linear_angle_threshold_deg,
			floor_radius_meters, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))`

	result, err := r.db.Exec(query,
		p.Name, p.Description, p.IsDefault, p.WindowSize, p.ValidityPeriodMs,
		p.MaxDriftSequence, p.DriftMultiplier, p.LinearAngleThresholdDeg,
		p.FloorRadiusMeters, p.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create config profile: %w", err)
	}
	return result.LastInsertId()
}

func (r *ConfigProfileRepository) GetByID(id int64) (*models.DetectorConfigProfile, error) {
	query := `SELECT id, name, description, is_default, window_size, validity_period_ms,
		max_drift_sequence, drift_multiplier, linear_angle_threshold_deg, floor_radius_meters,
		created_by, created_at, updated_at FROM config_profiles WHERE id = ?`

	var p models.DetectorConfigProfile
	err := r.db.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.WindowSize, &p.ValidityPeriodMs,
		&p.MaxDriftSequence, &p.DriftMultiplier, &p.LinearAngleThresholdDeg, &p.FloorRadiusMeters,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config profile: %w", err)
	}
	return &p, nil
}

func (r *ConfigProfileRepository) List() ([]models.DetectorConfigProfile, error) {
	query := `SELECT id, name, description, is_default, window_size, validity_period_ms,
		max_drift_sequence, drift_multiplier, linear_angle_threshold_deg, floor_radius_meters,
		created_by, created_at, updated_at FROM config_profiles ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query config profiles: %w", err)
	}
	defer rows.Close()

	var out []models.DetectorConfigProfile
	for rows.Next() {
		var p models.DetectorConfigProfile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.WindowSize, &p.ValidityPeriodMs,
			&p.MaxDriftSequence, &p.DriftMultiplier, &p.LinearAngleThresholdDeg, &p.FloorRadiusMeters,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan config profile: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ConfigProfileRepository) Update(p *models.DetectorConfigProfile) error {
	query := `UPDATE config_profiles SET
			name = ?, description = ?, is_default = ?, window_size = ?, validity_period_ms = ?,
			max_drift_sequence = ?, drift_multiplier = ?, linear_angle_threshold_deg = ?,
			floor_radius_meters = ?, updated_at = datetime('now')
		WHERE id = ?`

	_, err := r.db.Exec(query,
		p.Name, p.Description, p.IsDefault, p.WindowSize, p.ValidityPeriodMs,
		p.MaxDriftSequence, p.DriftMultiplier, p.LinearAngleThresholdDeg, p.FloorRadiusMeters, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update config profile: %w", err)
	}
	return nil
}

func (r *ConfigProfileRepository) GetDefault() (*models.DetectorConfigProfile, error) {
	query := `SELECT id, name, description, is_default, window_size, validity_period_ms,
		max_drift_sequence, drift_multiplier, linear_angle_threshold_deg, floor_radius_meters,
		created_by, created_at, updated_at FROM config_profiles WHERE is_default = 1 LIMIT 1`

	var p models.DetectorConfigProfile
	err := r.db.QueryRow(query).Scan(
		&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.WindowSize, &p.ValidityPeriodMs,
		&p.MaxDriftSequence, &p.DriftMultiplier, &p.LinearAngleThresholdDeg, &p.FloorRadiusMeters,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default config profile: %w", err)
	}
	return &p, nil
}
